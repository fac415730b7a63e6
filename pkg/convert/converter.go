package convert

import (
	"github.com/filebridge/filebridge/pkg/logging"
	"github.com/filebridge/filebridge/pkg/tempfile"
	"github.com/filebridge/filebridge/pkg/toolrunner"
)

// Tools names the external binaries the converter shells out to.
type Tools struct {
	Ghostscript toolrunner.Tool
	FFmpeg      toolrunner.Tool
	LibreOffice toolrunner.Tool
}

// Converter dispatches conversion jobs to the tool family chosen by
// Classify. Image work stays in-process; media and document work is
// delegated to external tools through the runner.
type Converter struct {
	ws      *tempfile.Workspace
	runner  *toolrunner.Runner
	tools   Tools
	presets *PresetLibrary
	logger  *logging.Logger
}

// New wires a converter. presets may be nil when no preset file is
// configured.
func New(ws *tempfile.Workspace, runner *toolrunner.Runner, tools Tools, presets *PresetLibrary, logger *logging.Logger) *Converter {
	if presets == nil {
		presets = EmptyPresetLibrary()
	}
	return &Converter{ws: ws, runner: runner, tools: tools, presets: presets, logger: logger}
}
