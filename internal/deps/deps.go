package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external binary subspeak can use.
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

// Satisfied reports whether the dependency is either available or optional.
func (s Status) Satisfied() bool {
	return s.Available || s.Optional
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
		switch {
		case cmd == "":
			status.Detail = "command not configured"
		default:
			resolved, err := exec.LookPath(cmd)
			if err != nil {
				status.Detail = fmt.Sprintf("binary %q not found", cmd)
				break
			}
			status.Command = resolved
			status.Available = true
		}
		results = append(results, status)
	}
	return results
}

// FFprobe returns the requirement for the ffprobe binary. It is only
// mandatory when ffprobe is the configured duration prober.
func FFprobe(binary string, required bool) Requirement {
	if strings.TrimSpace(binary) == "" {
		binary = "ffprobe"
	}
	description := "Optional duration prober (subspeak probe --ffprobe)"
	if required {
		description = "Required for duration probing (synthesis.prober = \"ffprobe\")"
	}
	return Requirement{
		Name:        "FFprobe",
		Command:     binary,
		Description: description,
		Optional:    !required,
	}
}
