package domain

// Plugin represents one installable unit as reported by the backend API.
// Enabled and Activated are only meaningful while Installed is true; the
// backend is the source of truth for all fields.
type Plugin struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PluginURL   string `json:"plugin_url"`
	Installed   bool   `json:"installed"`
	Enabled     bool   `json:"enabled"`
	Activated   bool   `json:"activated"`
}

// Control is an action the console offers for a plugin.
type Control string

const (
	ControlInstall Control = "Install"
	ControlRemove  Control = "Remove"
	ControlEnable  Control = "Enable"
	ControlDisable Control = "Disable"
)

// Status is the run-state label shown for an enabled plugin.
type Status string

const (
	StatusNone       Status = ""
	StatusRunning    Status = "Running"
	StatusNotRunning Status = "Not running"
)

// Controls returns the actions the console offers for p:
// Install for an uninstalled plugin, otherwise Remove plus either
// Enable or Disable depending on the enabled flag. Enable and Disable
// are never offered for an uninstalled plugin.
func (p Plugin) Controls() []Control {
	if !p.Installed {
		return []Control{ControlInstall}
	}
	if !p.Enabled {
		return []Control{ControlRemove, ControlEnable}
	}
	return []Control{ControlRemove, ControlDisable}
}

// Status returns the run-state label for p. It is empty unless the
// plugin is installed and enabled; Activated then decides between
// Running and Not running.
func (p Plugin) Status() Status {
	if !p.Installed || !p.Enabled {
		return StatusNone
	}
	if p.Activated {
		return StatusRunning
	}
	return StatusNotRunning
}

// HasControl reports whether the console offers the given action for p.
func (p Plugin) HasControl(c Control) bool {
	for _, ctrl := range p.Controls() {
		if ctrl == c {
			return true
		}
	}
	return false
}
