package cli

import (
	"strings"
	"testing"

	"github.com/go-barry/bodensee"
	"github.com/go-barry/bodensee/core"
	"github.com/urfave/cli/v2"
)

func overrideRegisterRoutes(t *testing.T, fn func(*core.Router) error) {
	t.Helper()
	orig := bodensee.RegisterRoutes
	bodensee.RegisterRoutes = fn
	t.Cleanup(func() { bodensee.RegisterRoutes = orig })
}

func TestRoutesCommand_PrintsTableInOrder(t *testing.T) {
	app := &cli.App{Commands: []*cli.Command{RoutesCommand}}

	var runErr error
	output := captureOutput(func() {
		runErr = app.Run([]string{"bodensee", "routes"})
	})
	if runErr != nil {
		t.Fatalf("expected no error, got: %v", runErr)
	}

	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 routes, got:\n%s", output)
	}
	if !strings.Contains(lines[0], "GET") || !strings.Contains(lines[0], "/hello/<name>") {
		t.Errorf("unexpected first route: %q", lines[0])
	}
	if !strings.Contains(lines[1], "/api/bodensee") {
		t.Errorf("unexpected second route: %q", lines[1])
	}
}

func TestRoutesCommand_RegistrationError(t *testing.T) {
	overrideRegisterRoutes(t, func(r *core.Router) error {
		return r.Register("bad", "GET", func(core.Params) (any, error) { return "", nil })
	})

	app := &cli.App{Commands: []*cli.Command{RoutesCommand}}
	err := app.Run([]string{"bodensee", "routes"})
	if err == nil || !strings.Contains(err.Error(), "failed to register routes") {
		t.Errorf("expected registration error, got: %v", err)
	}
}
