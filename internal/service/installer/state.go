package installer

// InstallState accumulates the environment values collected by the wizard.
type InstallState struct {
	EnvVars map[string]string
}

func NewInstallState() *InstallState {
	return &InstallState{
		EnvVars: make(map[string]string),
	}
}

func (s *InstallState) enabled(key string) bool {
	return s.EnvVars[key] == "true"
}
