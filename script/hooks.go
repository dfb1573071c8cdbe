package script

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/ideenkultivierung/volumefx/volume"
)

// HookRunner runs the optional Tengo scripts attached to trigger volumes. A
// hook script must define onEnter and onExit functions; the runner dispatches
// the matching one when the controller reports a transition. Script failures
// are logged and swallowed so a broken hook never stalls the tick.
type HookRunner struct {
	baseDir string
	vars    map[string]any
	cache   map[string]*tengo.Compiled
}

// hookDispatchScript is appended to every hook source so the runner can
// select a lifecycle function by variable instead of recompiling per event.
const hookDispatchScript = `
if __event == "enter" {
	onEnter(__volume, __params)
} else if __event == "exit" {
	onExit(__volume, __params)
}
`

// NewHookRunner creates a runner resolving relative script paths against
// baseDir (typically the scene file's directory).
func NewHookRunner(baseDir string) *HookRunner {
	return &HookRunner{
		baseDir: baseDir,
		vars:    map[string]any{},
		cache:   map[string]*tengo.Compiled{},
	}
}

// SetVar exposes a host value (or a *tengo.UserFunction) to every hook
// script under the given name. Cached scripts are invalidated so the new
// binding is visible on the next transition.
func (h *HookRunner) SetVar(name string, value any) {
	h.vars[name] = value
	h.InvalidateAll()
}

// VolumeEntered runs the volume's enter hook, if any.
func (h *HookRunner) VolumeEntered(v *volume.TriggerVolume) {
	h.dispatch(v, v.EnterScript(), "enter")
}

// VolumeExited runs the volume's exit hook, if any.
func (h *HookRunner) VolumeExited(v *volume.TriggerVolume) {
	h.dispatch(v, v.ExitScript(), "exit")
}

func (h *HookRunner) dispatch(v *volume.TriggerVolume, scriptPath, event string) {
	if scriptPath == "" {
		return
	}
	compiled, err := h.compile(scriptPath)
	if err != nil {
		log.Printf("script: volume %q %s hook: %v", v.Name(), event, err)
		return
	}

	params := make(map[string]any)
	for p, val := range v.Targets() {
		params[string(p)] = val
	}

	run := compiled.Clone()
	if err := runHook(run, event, v.Name(), params); err != nil {
		log.Printf("script: volume %q %s hook: %v", v.Name(), event, err)
	}
}

func runHook(run *tengo.Compiled, event, volumeName string, params map[string]any) error {
	if err := run.Set("__event", event); err != nil {
		return err
	}
	if err := run.Set("__volume", volumeName); err != nil {
		return err
	}
	if err := run.Set("__params", params); err != nil {
		return err
	}
	return run.Run()
}

func (h *HookRunner) compile(scriptPath string) (*tengo.Compiled, error) {
	if c, ok := h.cache[scriptPath]; ok {
		return c, nil
	}

	path := scriptPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(h.baseDir, path)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	s := tengo.NewScript(append(src, []byte("\n"+hookDispatchScript)...))
	_ = s.Add("__event", "")
	_ = s.Add("__volume", "")
	_ = s.Add("__params", map[string]any{})
	for name, v := range h.vars {
		_ = s.Add(name, v)
	}
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", path, err)
	}
	h.cache[scriptPath] = compiled
	return compiled, nil
}

// Invalidate drops a cached script so the next transition recompiles it.
// Called by the host when a watched script file changes.
func (h *HookRunner) Invalidate(scriptPath string) {
	delete(h.cache, scriptPath)
}

// InvalidateAll drops every cached script.
func (h *HookRunner) InvalidateAll() {
	h.cache = map[string]*tengo.Compiled{}
}
