package plugin_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/reglet-dev/labelbind/application/plugin"
	"github.com/reglet-dev/labelbind/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// EchoService is a struct with methods to be registered as operations.
type EchoService struct {
	plugin.Service `name:"echo_service" desc:"Echo Service"`
	EchoOp         plugin.Op `desc:"Echoes the message back" method:"Echo"`
	SumOp          plugin.Op `desc:"Adds two numbers" method:"Sum"`
}

type EchoRequest struct {
	Message string `json:"message" validate:"required"`
}

type SumRequest struct {
	A int `json:"a"`
	B int `json:"b"`
}

func (s *EchoService) RequestModels() map[string]any {
	return map[string]any{
		"echo_op": EchoRequest{},
		"sum_op":  SumRequest{},
	}
}

func (s *EchoService) Echo(ctx context.Context, req *plugin.Request) (*entities.Result, error) {
	body, err := plugin.Bind[EchoRequest](req)
	if err != nil {
		return nil, err
	}
	res := entities.ResultSuccess("echoed", map[string]any{"reply": body.Message})
	return &res, nil
}

func (s *EchoService) Sum(ctx context.Context, req *plugin.Request) (*entities.Result, error) {
	body, err := plugin.Bind[SumRequest](req)
	if err != nil {
		return nil, err
	}
	res := entities.ResultSuccess("added", map[string]any{"sum": body.A + body.B})
	return &res, nil
}

func TestServiceRegistration(t *testing.T) {
	def := plugin.DefinePlugin(plugin.PluginDef{
		Name:    "test-plugin",
		Version: "1.0.0",
	})

	require.NoError(t, plugin.RegisterService(def, &EchoService{}))

	manifest := def.Manifest()
	require.NotNil(t, manifest)
	assert.Equal(t, "test-plugin", manifest.Name)
	assert.JSONEq(t, `{}`, string(manifest.ConfigSchema))

	svcManifest, ok := manifest.Services["echo_service"]
	require.True(t, ok, "service 'echo_service' not found")
	assert.Equal(t, "Echo Service", svcManifest.Description)

	require.Len(t, svcManifest.Operations, 2)
	assert.Equal(t, "echo_op", svcManifest.Operations[0].Name)
	assert.Equal(t, "Echoes the message back", svcManifest.Operations[0].Description)
	assert.Equal(t, "sum_op", svcManifest.Operations[1].Name)

	var inputSchema map[string]any
	require.NoError(t, json.Unmarshal(svcManifest.Operations[0].InputSchema, &inputSchema))
	assert.Contains(t, inputSchema["properties"], "message")

	handlerEcho, ok := def.GetHandler("echo_service", "echo_op")
	require.True(t, ok)

	res, err := handlerEcho(context.Background(), &plugin.Request{Raw: []byte(`{"message": "hello"}`)})
	require.NoError(t, err)
	assert.Equal(t, entities.ResultStatusSuccess, res.Status)
	assert.Equal(t, "hello", res.Data["reply"])

	handlerSum, ok := def.GetHandler("echo_service", "sum_op")
	require.True(t, ok)
	res, err = handlerSum(context.Background(), &plugin.Request{Raw: []byte(`{"a": 1, "b": 2}`)})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Data["sum"])

	_, ok = def.GetHandler("echo_service", "missing")
	assert.False(t, ok)
	_, ok = def.GetHandler("missing", "echo_op")
	assert.False(t, ok)
}

func TestServiceRegistration_HandlerValidation(t *testing.T) {
	def := plugin.DefinePlugin(plugin.PluginDef{Name: "test-plugin"})
	plugin.MustRegisterService(def, &EchoService{})

	handler, ok := def.GetHandler("echo_service", "echo_op")
	require.True(t, ok)

	_, err := handler(context.Background(), &plugin.Request{Raw: []byte(`{}`)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "message")
}

func TestOperations_Sorted(t *testing.T) {
	def := plugin.DefinePlugin(plugin.PluginDef{Name: "test-plugin"})
	plugin.MustRegisterService(def, &EchoService{})

	ops := def.Operations()
	require.Len(t, ops, 2)
	assert.Equal(t, "echo_service.echo_op", ops[0].QualifiedName())
	assert.Equal(t, "echo_service.sum_op", ops[1].QualifiedName())
	assert.NotNil(t, ops[0].Handler)
}
