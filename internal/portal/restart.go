package portal

import (
	"context"
	"fmt"
	"os/exec"

	"shoecare-portal/internal/logx"
)

// Restarter brings the machine back up on the saved network once the
// confirmation countdown has run out.
type Restarter interface {
	Restart(ctx context.Context) error
}

// CommandRestarter runs Command through sh, e.g. "systemctl reboot".
type CommandRestarter struct {
	Command string
}

func (r CommandRestarter) Restart(ctx context.Context) error {
	out, err := exec.CommandContext(ctx, "sh", "-c", r.Command).CombinedOutput()
	if err != nil {
		return fmt.Errorf("restart command %q: %w: %s", r.Command, err, out)
	}
	return nil
}

// NopRestarter only logs. It is used when no restart command is configured
// and the OS network manager picks up the new credentials on its own.
type NopRestarter struct{}

func (NopRestarter) Restart(ctx context.Context) error {
	logx.Log.Info().Msg("restart: no restart command configured, skipping")
	return nil
}
