package cache

import (
	"testing"

	"github.com/redis/go-redis/v9"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid-redis", "redis://localhost:6379", false},
		{"valid-with-db", "redis://localhost:6379/0", false},
		{"wrong-scheme", "http://localhost:6379", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseURL() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestKey(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer client.Close()

	tests := []struct {
		name      string
		namespace string
		parts     []string
		want      string
	}{
		{"default namespace", "", []string{"session", "default"}, "cogni:session:default"},
		{"custom namespace", "test", []string{"session", "work"}, "test:session:work"},
		{"single part", "cogni", []string{"ping"}, "cogni:ping"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Wrap(client, tt.namespace)
			if got := c.Key(tt.parts...); got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNew_UnreachableHost(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping unreachable host test in short mode")
	}

	ctx := t.Context()
	_, err := New(ctx, "redis://localhost:59999", "")
	if err == nil {
		t.Fatal("New() should return error for unreachable host")
	}
}
