package bindings

import (
	"context"

	"github.com/reglet-dev/labelbind/application/plugin"
	"github.com/reglet-dev/labelbind/domain/arith"
	"github.com/reglet-dev/labelbind/domain/entities"
)

// ArithService exposes arith.Add.
type ArithService struct {
	plugin.Service `name:"arith" desc:"Arithmetic helpers"`
	Add            plugin.Op `desc:"Add two integers" method:"HandleAdd"`
}

// AddRequest is the argument of arith.add.
type AddRequest struct {
	A int `json:"a" jsonschema:"description=First operand"`
	B int `json:"b" jsonschema:"description=Second operand"`
}

// NewArithService creates the arith service.
func NewArithService() *ArithService {
	return &ArithService{}
}

// RequestModels implements plugin.RequestModeler.
func (s *ArithService) RequestModels() map[string]any {
	return map[string]any{"add": AddRequest{}}
}

// HandleAdd returns {sum: a + b}.
func (s *ArithService) HandleAdd(_ context.Context, req *plugin.Request) (*entities.Result, error) {
	args, err := plugin.Bind[AddRequest](req)
	if err != nil {
		return nil, err
	}
	res := entities.ResultSuccess("added", map[string]any{"sum": arith.Add(args.A, args.B)})
	return &res, nil
}
