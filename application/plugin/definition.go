package plugin

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/reglet-dev/labelbind/application/schema"
	"github.com/reglet-dev/labelbind/domain/entities"
)

// PluginDef defines plugin identity and configuration.
type PluginDef struct {
	Name        string
	Version     string
	Description string
	Config      any // Struct for schema generation
}

// PluginDefinition holds the parsed plugin definition and registered services.
type PluginDefinition struct {
	def          PluginDef
	configSchema json.RawMessage
	services     map[string]*serviceEntry
	mu           sync.RWMutex
}

// serviceEntry holds a registered service.
type serviceEntry struct {
	name        string
	description string
	operations  map[string]*operationEntry
}

// operationEntry holds a registered operation.
type operationEntry struct {
	name        string
	description string
	inputSchema json.RawMessage
	handler     HandlerFunc
}

// Operation identifies one registered handler.
type Operation struct {
	Handler HandlerFunc
	Service string
	Name    string
}

// QualifiedName returns "service.operation".
func (o Operation) QualifiedName() string {
	return entities.QualifiedName(o.Service, o.Name)
}

// DefinePlugin creates a new plugin definition.
// Panics if the config struct cannot be turned into a schema.
func DefinePlugin(def PluginDef) *PluginDefinition {
	configSchema := []byte("{}")
	if def.Config != nil {
		var err error
		configSchema, err = schema.GenerateCompact(def.Config)
		if err != nil {
			panic("failed to generate config schema: " + err.Error())
		}
	}

	return &PluginDefinition{
		def:          def,
		configSchema: configSchema,
		services:     make(map[string]*serviceEntry),
	}
}

// Name returns the plugin name.
func (p *PluginDefinition) Name() string {
	return p.def.Name
}

// Manifest returns the complete plugin manifest. Operations are sorted by
// name within each service.
func (p *PluginDefinition) Manifest() *entities.Manifest {
	p.mu.RLock()
	defer p.mu.RUnlock()

	services := make(map[string]entities.ServiceManifest, len(p.services))
	for name, svc := range p.services {
		ops := make([]entities.OperationManifest, 0, len(svc.operations))
		for _, op := range svc.operations {
			ops = append(ops, entities.OperationManifest{
				Name:        op.name,
				Description: op.description,
				InputSchema: op.inputSchema,
			})
		}
		sort.Slice(ops, func(i, j int) bool { return ops[i].Name < ops[j].Name })
		services[name] = entities.ServiceManifest{
			Name:        svc.name,
			Description: svc.description,
			Operations:  ops,
		}
	}

	return &entities.Manifest{
		Name:         p.def.Name,
		Version:      p.def.Version,
		Description:  p.def.Description,
		ConfigSchema: p.configSchema,
		Services:     services,
	}
}

// RegisterHandler registers a handler for a service/operation.
// Called internally by RegisterService. Registering the same pair again
// replaces the handler.
func (p *PluginDefinition) RegisterHandler(serviceName, serviceDesc, opName, opDesc string, handler HandlerFunc) {
	p.registerOperation(serviceName, serviceDesc, &operationEntry{
		name:        opName,
		description: opDesc,
		handler:     handler,
	})
}

func (p *PluginDefinition) registerOperation(serviceName, serviceDesc string, op *operationEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()

	svc, ok := p.services[serviceName]
	if !ok {
		svc = &serviceEntry{
			name:        serviceName,
			description: serviceDesc,
			operations:  make(map[string]*operationEntry),
		}
		p.services[serviceName] = svc
	}

	svc.operations[op.name] = op
}

// GetHandler returns a handler for the given service/operation.
func (p *PluginDefinition) GetHandler(serviceName, opName string) (HandlerFunc, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	svc, ok := p.services[serviceName]
	if !ok {
		return nil, false
	}

	op, ok := svc.operations[opName]
	if !ok {
		return nil, false
	}

	return op.handler, true
}

// Operations returns every registered operation sorted by qualified name.
func (p *PluginDefinition) Operations() []Operation {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var ops []Operation
	for _, svc := range p.services {
		for _, op := range svc.operations {
			ops = append(ops, Operation{Service: svc.name, Name: op.name, Handler: op.handler})
		}
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i].QualifiedName() < ops[j].QualifiedName() })
	return ops
}
