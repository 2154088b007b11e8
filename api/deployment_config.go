package api

import "encoding/json"

// DeploymentConfig is the top-level schema of deployment_config.json.
// Each container entry is kept raw: apart from is_changed_regexp its fields
// are opaque metadata that is echoed back in the report.
type DeploymentConfig struct {
	Containers []json.RawMessage `json:"containers"`
}

// Field names read from the configuration document.
const (
	FieldContainers      = "containers"
	FieldName            = "name"
	FieldIsChangedRegexp = "is_changed_regexp"
)
