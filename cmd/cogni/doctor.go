package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/p-n-ai/cogni/internal/api"
	"github.com/p-n-ai/cogni/internal/platform/cache"
	"github.com/p-n-ai/cogni/internal/platform/config"
	"github.com/p-n-ai/cogni/internal/platform/database"
)

const doctorTimeout = 5 * time.Second

type check struct {
	name string
	run  func(ctx context.Context) (string, error)
}

func newDoctorCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:         "doctor",
		Short:       "Check configuration and connectivity",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipAppAnnotation: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			failed := 0
			for _, c := range doctorChecks(cfg) {
				ctx, cancel := context.WithTimeout(cmd.Context(), doctorTimeout)
				detail, err := c.run(ctx)
				cancel()

				if err != nil {
					failed++
					fmt.Fprintf(out, "FAIL  %-9s %v\n", c.name, err)
					continue
				}
				fmt.Fprintf(out, "ok    %-9s %s\n", c.name, detail)
			}
			if failed > 0 {
				return fmt.Errorf("%d check(s) failed", failed)
			}
			return nil
		},
	}
}

func doctorChecks(cfg *config.Config) []check {
	checks := []check{
		{"config", func(context.Context) (string, error) {
			if err := cfg.Validate(); err != nil {
				return "", err
			}
			return "session backend " + cfg.Session.Backend, nil
		}},
		{"api", func(ctx context.Context) (string, error) {
			client := api.New(api.WithBaseURL(cfg.API.URL), api.WithHTTPClient(&http.Client{Timeout: doctorTimeout}))
			_, err := client.Credits(ctx)
			var apiErr *api.Error
			if err != nil && !errors.As(err, &apiErr) {
				return "", err
			}
			return cfg.API.URL + " reachable", nil
		}},
	}

	if cfg.Session.Backend == "redis" {
		checks = append(checks, check{"cache", func(ctx context.Context) (string, error) {
			c, err := cache.New(ctx, cfg.Cache.URL, "")
			if err != nil {
				return "", err
			}
			defer c.Close()
			if err := c.HealthCheck(ctx); err != nil {
				return "", err
			}
			return "redis reachable", nil
		}})
	}

	if cfg.Database.Journal {
		checks = append(checks, check{"database", func(ctx context.Context) (string, error) {
			db, err := database.New(ctx, cfg.Database)
			if err != nil {
				return "", err
			}
			defer db.Close()
			if err := db.HealthCheck(ctx); err != nil {
				return "", err
			}
			return "journal database reachable", nil
		}})
	}
	return checks
}
