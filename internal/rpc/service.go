package rpc

import (
	"context"

	"github.com/apache/thrift/lib/go/thrift"
)

// LanguageModelService is the service contract from llm.thrift. The server
// side implements it (see Handler); the client side mirrors it with the same
// signatures.
type LanguageModelService interface {
	GenerateText(ctx context.Context, request *TextGenerationRequest) (*TextGenerationResponse, error)
	ClassifyText(ctx context.Context, request *TextClassificationRequest) (*TextClassificationResponse, error)
}

// Call argument and result envelopes. Success is field 0, the declared
// ModelError fault field 1; exactly one is set on a reply.

type generateTextArgs struct {
	Request *TextGenerationRequest // field 1
}

func (a *generateTextArgs) Read(ctx context.Context, in thrift.TProtocol) error {
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
		if fieldID == 1 && fieldType == thrift.STRUCT {
			a.Request = NewTextGenerationRequest()
			err = a.Request.Read(ctx, in)
		} else {
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

func (a *generateTextArgs) Write(ctx context.Context, out thrift.TProtocol) error {
	if err := out.WriteStructBegin(ctx, "generateText_args"); err != nil {
		return err
	}
	if a.Request != nil {
		if err := writeStructField(ctx, out, "request", 1, a.Request); err != nil {
			return err
		}
	}
	return finishStruct(ctx, out)
}

type generateTextResult struct {
	Success *TextGenerationResponse // field 0
	Error   *ModelError             // field 1
}

func (r *generateTextResult) Read(ctx context.Context, in thrift.TProtocol) error {
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
		case fieldID == 0 && fieldType == thrift.STRUCT:
			r.Success = &TextGenerationResponse{}
			err = r.Success.Read(ctx, in)
		case fieldID == 1 && fieldType == thrift.STRUCT:
			r.Error = &ModelError{}
			err = r.Error.Read(ctx, in)
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

func (r *generateTextResult) Write(ctx context.Context, out thrift.TProtocol) error {
	if err := out.WriteStructBegin(ctx, "generateText_result"); err != nil {
		return err
	}
	if r.Success != nil {
		if err := writeStructField(ctx, out, "success", 0, r.Success); err != nil {
			return err
		}
	}
	if r.Error != nil {
		if err := writeStructField(ctx, out, "error", 1, r.Error); err != nil {
			return err
		}
	}
	return finishStruct(ctx, out)
}

type classifyTextArgs struct {
	Request *TextClassificationRequest // field 1
}

func (a *classifyTextArgs) Read(ctx context.Context, in thrift.TProtocol) error {
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
		if fieldID == 1 && fieldType == thrift.STRUCT {
			a.Request = &TextClassificationRequest{}
			err = a.Request.Read(ctx, in)
		} else {
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

func (a *classifyTextArgs) Write(ctx context.Context, out thrift.TProtocol) error {
	if err := out.WriteStructBegin(ctx, "classifyText_args"); err != nil {
		return err
	}
	if a.Request != nil {
		if err := writeStructField(ctx, out, "request", 1, a.Request); err != nil {
			return err
		}
	}
	return finishStruct(ctx, out)
}

type classifyTextResult struct {
	Success *TextClassificationResponse // field 0
	Error   *ModelError                 // field 1
}

func (r *classifyTextResult) Read(ctx context.Context, in thrift.TProtocol) error {
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
		case fieldID == 0 && fieldType == thrift.STRUCT:
			r.Success = &TextClassificationResponse{}
			err = r.Success.Read(ctx, in)
		case fieldID == 1 && fieldType == thrift.STRUCT:
			r.Error = &ModelError{}
			err = r.Error.Read(ctx, in)
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

func (r *classifyTextResult) Write(ctx context.Context, out thrift.TProtocol) error {
	if err := out.WriteStructBegin(ctx, "classifyText_result"); err != nil {
		return err
	}
	if r.Success != nil {
		if err := writeStructField(ctx, out, "success", 0, r.Success); err != nil {
			return err
		}
	}
	if r.Error != nil {
		if err := writeStructField(ctx, out, "error", 1, r.Error); err != nil {
			return err
		}
	}
	return finishStruct(ctx, out)
}

func writeStructField(ctx context.Context, out thrift.TProtocol, name string, id int16, v thrift.TStruct) error {
	if err := out.WriteFieldBegin(ctx, name, thrift.STRUCT, id); err != nil {
		return err
	}
	if err := v.Write(ctx, out); err != nil {
		return err
	}
	return out.WriteFieldEnd(ctx)
}
