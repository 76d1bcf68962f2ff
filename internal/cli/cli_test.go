package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Lixing-Zhang/orderboard/internal/auth"
	"github.com/Lixing-Zhang/orderboard/internal/models"
)

const testSecret = "0123456789abcdef0123"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("ORDERBOARD_AUTH_JWT_SECRET", testSecret)

	out, err := run(t, "token", "--owner", "store-7", "--name", "Front counter", "--log-level", "error")
	if err != nil {
		t.Fatalf("token command unexpected error: %v", err)
	}

	claims, err := auth.NewManager(testSecret, "orderboard", 0).Parse(strings.TrimSpace(out))
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.Subject != "store-7" || claims.Name != "Front counter" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.ExpiresAt == nil {
		t.Error("default token should expire")
	}
}

func TestTokenCommand_NoExpiry(t *testing.T) {
	t.Setenv("ORDERBOARD_AUTH_JWT_SECRET", testSecret)

	out, err := run(t, "token", "--owner", "board-kitchen", "--ttl", "0", "--log-level", "error")
	if err != nil {
		t.Fatalf("token command unexpected error: %v", err)
	}

	claims, err := auth.NewManager(testSecret, "orderboard", 0).Parse(strings.TrimSpace(out))
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.ExpiresAt != nil {
		t.Errorf("ExpiresAt = %v, want none with --ttl 0", claims.ExpiresAt)
	}
}

func TestTokenCommand_RequiresSecret(t *testing.T) {
	t.Setenv("ORDERBOARD_AUTH_JWT_SECRET", "")
	if _, err := run(t, "token", "--owner", "store-7", "--log-level", "error"); err == nil {
		t.Error("token command without a secret should fail")
	}
}

func TestDemoCommand(t *testing.T) {
	out, err := run(t, "demo", "--items", "6", "--orders", "12", "--seed", "42", "--log-level", "error")
	if err != nil {
		t.Fatalf("demo command unexpected error: %v", err)
	}
	for _, want := range []string{"Kitchen", "Bar", "seed 42: 6 menu items, 12 orders"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestParseQueues(t *testing.T) {
	tests := []struct {
		raw     string
		want    []models.Queue
		wantErr bool
	}{
		{raw: "Kitchen", want: []models.Queue{models.QueueKitchen}},
		{raw: "kitchen, bar", want: []models.Queue{models.QueueKitchen, models.QueueBar}},
		{raw: "Both,", want: []models.Queue{models.QueueBoth}},
		{raw: "", wantErr: true},
		{raw: "Kitchen,grill", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseQueues(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, models.ErrValidation) {
					t.Fatalf("parseQueues(%q) error = %v, want ErrValidation", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseQueues(%q) unexpected error: %v", tt.raw, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseQueues(%q) = %v, want %v", tt.raw, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("parseQueues(%q)[%d] = %q, want %q", tt.raw, i, got[i], tt.want[i])
				}
			}
		})
	}
}
