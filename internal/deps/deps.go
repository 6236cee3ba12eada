package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/ekimekim/awp/internal/config"
)

// Requirement defines an external program awp runs.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// ForConfig lists the programs cfg asks the player to launch.
func ForConfig(cfg *config.Config) []Requirement {
	if cfg == nil {
		return nil
	}
	reqs := []Requirement{{
		Name:        "Player",
		Command:     cfg.Player.Binary,
		Description: "Plays each track; receives key presses on stdin",
	}}
	if len(cfg.Ambient.Command) > 0 {
		reqs = append(reqs, Requirement{
			Name:        "Ambient",
			Command:     cfg.Ambient.Command[0],
			Description: "Background sound for the length of the session",
			Optional:    true,
		})
	}
	return reqs
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// FirstMissing returns an error naming the first unavailable required
// dependency, or nil when all required dependencies are present.
func FirstMissing(statuses []Status) error {
	for _, status := range statuses {
		if status.Optional || status.Available {
			continue
		}
		return fmt.Errorf("%s unavailable: %s", strings.ToLower(status.Name), status.Detail)
	}
	return nil
}
