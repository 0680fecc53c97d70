package bot

import (
	"fmt"

	"github.com/nexusdev/groupguard/plugin"
)

type registeredCommand struct {
	plugin  string
	handler *plugin.CommandHandler
}

type registeredButton struct {
	plugin  string
	handler *plugin.ButtonHandler
}

type managerService struct {
	plugins  []plugin.Plugin
	commands map[string]registeredCommand
	buttons  map[string]registeredButton
}

// NewManagerService indexes the handlers of all plugins. Every name in
// vocabulary must be served by exactly one command handler.
func NewManagerService(vocabulary []string, plugins []plugin.Plugin) (*managerService, error) {
	service := &managerService{
		commands: make(map[string]registeredCommand),
		buttons:  make(map[string]registeredButton),
	}

	for _, plg := range plugins {
		if plg == nil {
			return nil, fmt.Errorf("plugin is nil")
		}
		service.plugins = append(service.plugins, plg)

		for _, h := range plg.Handlers() {
			switch handler := h.(type) {
			case *plugin.CommandHandler:
				if existing, ok := service.commands[handler.Trigger]; ok {
					return nil, fmt.Errorf("command %q registered by %s and %s", handler.Trigger, existing.plugin, plg.Name())
				}
				service.commands[handler.Trigger] = registeredCommand{plugin: plg.Name(), handler: handler}
			case *plugin.ButtonHandler:
				if existing, ok := service.buttons[handler.Trigger]; ok {
					return nil, fmt.Errorf("button %q registered by %s and %s", handler.Trigger, existing.plugin, plg.Name())
				}
				service.buttons[handler.Trigger] = registeredButton{plugin: plg.Name(), handler: handler}
			default:
				return nil, fmt.Errorf("plugin %s: unsupported handler type %T", plg.Name(), h)
			}
		}
	}

	known := make(map[string]bool, len(vocabulary))
	for _, name := range vocabulary {
		known[name] = true
		if _, ok := service.commands[name]; !ok {
			return nil, fmt.Errorf("command %q has no handler", name)
		}
	}

	for name, cmd := range service.commands {
		if !known[name] {
			log.Debug().
				Str("command", name).
				Str("plugin", cmd.plugin).
				Msg("Command is not in the vocabulary and will never match")
		}
	}

	return service, nil
}

func (service *managerService) Plugins() []plugin.Plugin {
	return service.plugins
}

func (service *managerService) Command(name string) (registeredCommand, bool) {
	cmd, ok := service.commands[name]
	return cmd, ok
}

func (service *managerService) Button(id string) (registeredButton, bool) {
	btn, ok := service.buttons[id]
	return btn, ok
}
