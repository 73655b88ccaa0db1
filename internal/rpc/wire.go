package rpc

import (
	"context"

	"github.com/apache/thrift/lib/go/thrift"
)

// Wire structs for the LanguageModelService schema. Maintained by hand
// against the llm.thrift IDL at the repository root; field ids and defaults
// must stay in sync with it.

// TextGenerationRequest mirrors struct TextGenerationRequest (llm.thrift).
type TextGenerationRequest struct {
	Prompt      string  // field 1
	MaxLength   int32   // field 2, default 100
	Temperature float64 // field 3, default 1.0
	TopK        int32   // field 4, default 50
	TopP        float64 // field 5, default 0.95
}

// NewTextGenerationRequest applies the IDL field defaults.
func NewTextGenerationRequest() *TextGenerationRequest {
	return &TextGenerationRequest{MaxLength: 100, Temperature: 1.0, TopK: 50, TopP: 0.95}
}

func (r *TextGenerationRequest) Read(ctx context.Context, in thrift.TProtocol) error {
	if _, err := in.ReadStructBegin(ctx); err != nil {
		return err
	}
	for {
		_, fieldType, fieldID, err := in.ReadFieldBegin(ctx)
		if err != nil {
			return err
		}
		if fieldType == thrift.STOP {
			break
		}
		switch {
		case fieldID == 1 && fieldType == thrift.STRING:
			r.Prompt, err = in.ReadString(ctx)
		case fieldID == 2 && fieldType == thrift.I32:
			r.MaxLength, err = in.ReadI32(ctx)
		case fieldID == 3 && fieldType == thrift.DOUBLE:
			r.Temperature, err = in.ReadDouble(ctx)
		case fieldID == 4 && fieldType == thrift.I32:
			r.TopK, err = in.ReadI32(ctx)
		case fieldID == 5 && fieldType == thrift.DOUBLE:
			r.TopP, err = in.ReadDouble(ctx)
		default:
			err = in.Skip(ctx, fieldType)
		}
		if err != nil {
			return err
		}
		if err := in.ReadFieldEnd(ctx); err != nil {
			return err
		}
	}
	return in.ReadStructEnd(ctx)
}

func (r *TextGenerationRequest) Write(ctx context.Context, out thrift.TProtocol) error {
	if err := out.WriteStructBegin(ctx, "TextGenerationRequest"); err != nil {
		return err
	}
	if err := writeStringField(ctx, out, "prompt", 1, r.Prompt); err != nil {
		return err
	}
	if err := writeI32Field(ctx, out, "max_length", 2, r.MaxLength); err != nil {
		return err
	}
	if err := writeDoubleField(ctx, out, "temperature", 3, r.Temperature); err != nil {
		return err
	}
	if err := writeI32Field(ctx, out, "top_k", 4, r.TopK); err != nil {
		return err
	}
	if err := writeDoubleField(ctx, out, "top_p", 5, r.TopP); err != nil {
		return err
	}
	return finishStruct(ctx, out)
}

// TextGenerationResponse mirrors struct TextGenerationResponse (llm.thrift).
type TextGenerationResponse struct {
	GeneratedText   string  // field 1
	GenerationTime  float64 // field 2
	InputTokens     int32   // field 3
	GeneratedTokens int32   // field 4
}

func (r *TextGenerationResponse) Read(ctx context.Context, in thrift.TProtocol) error {
	if _, err := in.ReadStructBegin(ctx); err != nil {
		return err
	}
	for {
		_, fieldType, fieldID, err := in.ReadFieldBegin(ctx)
		if err != nil {
			return err
		}
		if fieldType == thrift.STOP {
			break
		}
		switch {
		case fieldID == 1 && fieldType == thrift.STRING:
			r.GeneratedText, err = in.ReadString(ctx)
		case fieldID == 2 && fieldType == thrift.DOUBLE:
			r.GenerationTime, err = in.ReadDouble(ctx)
		case fieldID == 3 && fieldType == thrift.I32:
			r.InputTokens, err = in.ReadI32(ctx)
		case fieldID == 4 && fieldType == thrift.I32:
			r.GeneratedTokens, err = in.ReadI32(ctx)
		default:
			err = in.Skip(ctx, fieldType)
		}
		if err != nil {
			return err
		}
		if err := in.ReadFieldEnd(ctx); err != nil {
			return err
		}
	}
	return in.ReadStructEnd(ctx)
}

func (r *TextGenerationResponse) Write(ctx context.Context, out thrift.TProtocol) error {
	if err := out.WriteStructBegin(ctx, "TextGenerationResponse"); err != nil {
		return err
	}
	if err := writeStringField(ctx, out, "generated_text", 1, r.GeneratedText); err != nil {
		return err
	}
	if err := writeDoubleField(ctx, out, "generation_time", 2, r.GenerationTime); err != nil {
		return err
	}
	if err := writeI32Field(ctx, out, "input_tokens", 3, r.InputTokens); err != nil {
		return err
	}
	if err := writeI32Field(ctx, out, "generated_tokens", 4, r.GeneratedTokens); err != nil {
		return err
	}
	return finishStruct(ctx, out)
}

// TextClassificationRequest mirrors struct TextClassificationRequest
// (llm.thrift).
type TextClassificationRequest struct {
	Text   string   // field 1
	Labels []string // field 2
}

func (r *TextClassificationRequest) Read(ctx context.Context, in thrift.TProtocol) error {
	if _, err := in.ReadStructBegin(ctx); err != nil {
		return err
	}
	for {
		_, fieldType, fieldID, err := in.ReadFieldBegin(ctx)
		if err != nil {
			return err
		}
		if fieldType == thrift.STOP {
			break
		}
		switch {
		case fieldID == 1 && fieldType == thrift.STRING:
			r.Text, err = in.ReadString(ctx)
		case fieldID == 2 && fieldType == thrift.LIST:
			r.Labels, err = readStringList(ctx, in)
		default:
			err = in.Skip(ctx, fieldType)
		}
		if err != nil {
			return err
		}
		if err := in.ReadFieldEnd(ctx); err != nil {
			return err
		}
	}
	return in.ReadStructEnd(ctx)
}

func (r *TextClassificationRequest) Write(ctx context.Context, out thrift.TProtocol) error {
	if err := out.WriteStructBegin(ctx, "TextClassificationRequest"); err != nil {
		return err
	}
	if err := writeStringField(ctx, out, "text", 1, r.Text); err != nil {
		return err
	}
	if err := out.WriteFieldBegin(ctx, "labels", thrift.LIST, 2); err != nil {
		return err
	}
	if err := writeStringList(ctx, out, r.Labels); err != nil {
		return err
	}
	if err := out.WriteFieldEnd(ctx); err != nil {
		return err
	}
	return finishStruct(ctx, out)
}

// TextClassificationResponse mirrors struct TextClassificationResponse
// (llm.thrift).
type TextClassificationResponse struct {
	Label              string  // field 1
	Confidence         float64 // field 2
	ClassificationTime float64 // field 3
}

func (r *TextClassificationResponse) Read(ctx context.Context, in thrift.TProtocol) error {
	if _, err := in.ReadStructBegin(ctx); err != nil {
		return err
	}
	for {
		_, fieldType, fieldID, err := in.ReadFieldBegin(ctx)
		if err != nil {
			return err
		}
		if fieldType == thrift.STOP {
			break
		}
		switch {
		case fieldID == 1 && fieldType == thrift.STRING:
			r.Label, err = in.ReadString(ctx)
		case fieldID == 2 && fieldType == thrift.DOUBLE:
			r.Confidence, err = in.ReadDouble(ctx)
		case fieldID == 3 && fieldType == thrift.DOUBLE:
			r.ClassificationTime, err = in.ReadDouble(ctx)
		default:
			err = in.Skip(ctx, fieldType)
		}
		if err != nil {
			return err
		}
		if err := in.ReadFieldEnd(ctx); err != nil {
			return err
		}
	}
	return in.ReadStructEnd(ctx)
}

func (r *TextClassificationResponse) Write(ctx context.Context, out thrift.TProtocol) error {
	if err := out.WriteStructBegin(ctx, "TextClassificationResponse"); err != nil {
		return err
	}
	if err := writeStringField(ctx, out, "label", 1, r.Label); err != nil {
		return err
	}
	if err := writeDoubleField(ctx, out, "confidence", 2, r.Confidence); err != nil {
		return err
	}
	if err := writeDoubleField(ctx, out, "classification_time", 3, r.ClassificationTime); err != nil {
		return err
	}
	return finishStruct(ctx, out)
}

// ModelError mirrors exception ModelError (llm.thrift). It is both a wire
// struct and a Go error, so declared service faults travel the exception
// path.
type ModelError struct {
	Message string // field 1
	Details string // field 2
}

var _ thrift.TException = (*ModelError)(nil)

func (e *ModelError) Error() string {
	if e.Details == "" {
		return e.Message
	}
	return e.Message + ": " + e.Details
}

func (e *ModelError) TExceptionType() thrift.TExceptionType {
	return thrift.TExceptionTypeCompiled
}

func (e *ModelError) Read(ctx context.Context, in thrift.TProtocol) error {
	if _, err := in.ReadStructBegin(ctx); err != nil {
		return err
	}
	for {
		_, fieldType, fieldID, err := in.ReadFieldBegin(ctx)
		if err != nil {
			return err
		}
		if fieldType == thrift.STOP {
			break
		}
		switch {
		case fieldID == 1 && fieldType == thrift.STRING:
			e.Message, err = in.ReadString(ctx)
		case fieldID == 2 && fieldType == thrift.STRING:
			e.Details, err = in.ReadString(ctx)
		default:
			err = in.Skip(ctx, fieldType)
		}
		if err != nil {
			return err
		}
		if err := in.ReadFieldEnd(ctx); err != nil {
			return err
		}
	}
	return in.ReadStructEnd(ctx)
}

func (e *ModelError) Write(ctx context.Context, out thrift.TProtocol) error {
	if err := out.WriteStructBegin(ctx, "ModelError"); err != nil {
		return err
	}
	if err := writeStringField(ctx, out, "message", 1, e.Message); err != nil {
		return err
	}
	if err := writeStringField(ctx, out, "details", 2, e.Details); err != nil {
		return err
	}
	return finishStruct(ctx, out)
}

// Field-level helpers shared by all wire structs.

func writeStringField(ctx context.Context, out thrift.TProtocol, name string, id int16, v string) error {
	if err := out.WriteFieldBegin(ctx, name, thrift.STRING, id); err != nil {
		return err
	}
	if err := out.WriteString(ctx, v); err != nil {
		return err
	}
	return out.WriteFieldEnd(ctx)
}

func writeI32Field(ctx context.Context, out thrift.TProtocol, name string, id int16, v int32) error {
	if err := out.WriteFieldBegin(ctx, name, thrift.I32, id); err != nil {
		return err
	}
	if err := out.WriteI32(ctx, v); err != nil {
		return err
	}
	return out.WriteFieldEnd(ctx)
}

func writeDoubleField(ctx context.Context, out thrift.TProtocol, name string, id int16, v float64) error {
	if err := out.WriteFieldBegin(ctx, name, thrift.DOUBLE, id); err != nil {
		return err
	}
	if err := out.WriteDouble(ctx, v); err != nil {
		return err
	}
	return out.WriteFieldEnd(ctx)
}

func writeStringList(ctx context.Context, out thrift.TProtocol, vs []string) error {
	if err := out.WriteListBegin(ctx, thrift.STRING, len(vs)); err != nil {
		return err
	}
	for _, v := range vs {
		if err := out.WriteString(ctx, v); err != nil {
			return err
		}
	}
	return out.WriteListEnd(ctx)
}

func readStringList(ctx context.Context, in thrift.TProtocol) ([]string, error) {
	_, size, err := in.ReadListBegin(ctx)
	if err != nil {
		return nil, err
	}
	vs := make([]string, 0, size)
	for i := 0; i < size; i++ {
		v, err := in.ReadString(ctx)
		if err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}
	return vs, in.ReadListEnd(ctx)
}

func finishStruct(ctx context.Context, out thrift.TProtocol) error {
	if err := out.WriteFieldStop(ctx); err != nil {
		return err
	}
	return out.WriteStructEnd(ctx)
}
