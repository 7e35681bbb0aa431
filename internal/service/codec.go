package service

import (
	"encoding/json"
	"fmt"

	"github.com/bufbuild/connect-go"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// decode converts a request payload into v using the JSON field names of v.
func decode(msg *structpb.Struct, v any) error {
	if msg == nil {
		msg = &structpb.Struct{}
	}

	blob, err := protojson.Marshal(msg)
	if err != nil {
		return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("failed to read request: %w", err))
	}

	if err := json.Unmarshal(blob, v); err != nil {
		return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("invalid request: %w", err))
	}

	return nil
}

// encode converts v into a response payload.
func encode(v any) (*connect.Response[structpb.Struct], error) {
	s, err := toStruct(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode response: %w", err)
	}

	return connect.NewResponse(s), nil
}

func toStruct(v any) (*structpb.Struct, error) {
	blob, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var m map[string]any
	if err := json.Unmarshal(blob, &m); err != nil {
		return nil, err
	}

	return structpb.NewStruct(m)
}
