package plugin

import (
	"context"
	stdErrors "errors"
	"testing"

	"github.com/reglet-dev/labelbind/domain/entities"
	"github.com/reglet-dev/labelbind/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noServiceTag struct {
	Run Op `method:"Do"`
}

type unnamedService struct {
	Service `desc:"no name"`
	Run     Op `method:"Do"`
}

type noOps struct {
	Service `name:"empty"`
}

type missingMethod struct {
	Service `name:"missing"`
	Run     Op `method:"Nope"`
}

type badSignature struct {
	Service `name:"bad"`
	Run     Op `method:"Do"`
}

func (b *badSignature) Do(ctx context.Context) error { return nil }

type badReturn struct {
	Service `name:"bad_return"`
	Run     Op `method:"Do"`
}

func (b *badReturn) Do(ctx context.Context, req *Request) (entities.Result, error) {
	return entities.Result{}, nil
}

type nilResult struct {
	Service `name:"nil_result"`
	Run     Op `method:"Do"`
}

func (n *nilResult) Do(ctx context.Context, req *Request) (*entities.Result, error) {
	return nil, nil
}

func TestRegisterService_Errors(t *testing.T) {
	tests := []struct {
		name    string
		svc     any
		wantErr string
	}{
		{name: "not a pointer", svc: nilResult{}, wantErr: "pointer to struct"},
		{name: "nil", svc: nil, wantErr: "pointer to struct"},
		{name: "no Service field", svc: &noServiceTag{}, wantErr: "must embed plugin.Service"},
		{name: "no name tag", svc: &unnamedService{}, wantErr: "missing 'name' tag"},
		{name: "no operations", svc: &noOps{}, wantErr: "no operations"},
		{name: "missing method", svc: &missingMethod{}, wantErr: "no method Nope"},
		{name: "bad signature", svc: &badSignature{}, wantErr: "method must have signature"},
		{name: "bad return", svc: &badReturn{}, wantErr: "first return value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := DefinePlugin(PluginDef{Name: "p"})
			err := RegisterService(def, tt.svc)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Empty(t, def.Operations(), "failed registration must not leave partial operations")
		})
	}
}

func TestMustRegisterService_Panics(t *testing.T) {
	def := DefinePlugin(PluginDef{Name: "p"})
	assert.Panics(t, func() { MustRegisterService(def, &noOps{}) })
}

func TestWrapMethod_NilResult(t *testing.T) {
	def := DefinePlugin(PluginDef{Name: "p"})
	require.NoError(t, RegisterService(def, &nilResult{}))

	handler, ok := def.GetHandler("nil_result", "run")
	require.True(t, ok)

	res, err := handler(context.Background(), nil)
	assert.NoError(t, err)
	assert.Nil(t, res)
}

func TestDefinePlugin_ConfigSchema(t *testing.T) {
	type Config struct {
		Prefix string `json:"prefix"`
	}
	def := DefinePlugin(PluginDef{Name: "p", Version: "1", Config: Config{}})
	assert.Contains(t, string(def.Manifest().ConfigSchema), "prefix")
	assert.Equal(t, "p", def.Name())
}

func TestRegisterHandler_Replaces(t *testing.T) {
	def := DefinePlugin(PluginDef{Name: "p"})
	first := func(ctx context.Context, req *Request) (*entities.Result, error) {
		r := entities.ResultSuccess("first", nil)
		return &r, nil
	}
	second := func(ctx context.Context, req *Request) (*entities.Result, error) {
		r := entities.ResultSuccess("second", nil)
		return &r, nil
	}

	def.RegisterHandler("svc", "Service", "op", "Operation", first)
	def.RegisterHandler("svc", "Service", "op", "Operation", second)

	handler, ok := def.GetHandler("svc", "op")
	require.True(t, ok)
	res, err := handler(context.Background(), &Request{})
	require.NoError(t, err)
	assert.Equal(t, "second", res.Message)
	assert.Len(t, def.Operations(), 1)
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"PrintInt":  "print_int",
		"GetPrefix": "get_prefix",
		"New":       "new",
		"Add":       "add",
		"HTTPCall":  "http_call",
		"EchoOp":    "echo_op",
	}
	for in, want := range tests {
		assert.Equal(t, want, toSnakeCase(in), "toSnakeCase(%q)", in)
	}
}

type bindArgs struct {
	Handle uint64 `json:"handle" validate:"required"`
	Value  int    `json:"value"`
}

func TestBind(t *testing.T) {
	args, err := Bind[bindArgs](&Request{Raw: []byte(`{"handle": 4, "value": -2}`)})
	require.NoError(t, err)
	assert.Equal(t, bindArgs{Handle: 4, Value: -2}, args)
}

func TestBind_Errors(t *testing.T) {
	tests := []struct {
		name      string
		req       *Request
		wantField string
	}{
		{name: "nil request", req: nil, wantField: "handle"},
		{name: "empty raw", req: &Request{Raw: []byte("  ")}, wantField: "handle"},
		{name: "malformed", req: &Request{Raw: []byte(`{"handle":`)}},
		{name: "wrong type", req: &Request{Raw: []byte(`{"handle":"one"}`)}},
		{name: "unknown field", req: &Request{Raw: []byte(`{"handle":1,"extra":true}`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Bind[bindArgs](tt.req)
			require.Error(t, err)

			var ve *errors.ValidationError
			require.True(t, stdErrors.As(err, &ve))
			assert.Equal(t, tt.wantField, ve.Field)
			assert.Equal(t, "validation", errors.ToErrorDetail(err).Type)
		})
	}
}
