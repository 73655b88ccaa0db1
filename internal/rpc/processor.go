package rpc

import (
	"context"
	"errors"

	"github.com/apache/thrift/lib/go/thrift"
)

// LanguageModelServiceProcessor dispatches incoming calls to a service
// implementation. It satisfies thrift.TProcessor.
type LanguageModelServiceProcessor struct {
	procs map[string]thrift.TProcessorFunction
}

// NewLanguageModelServiceProcessor wires the two service methods.
func NewLanguageModelServiceProcessor(h LanguageModelService) *LanguageModelServiceProcessor {
	return &LanguageModelServiceProcessor{
		procs: map[string]thrift.TProcessorFunction{
			"generateText": &generateTextProc{h: h},
			"classifyText": &classifyTextProc{h: h},
		},
	}
}

func (p *LanguageModelServiceProcessor) ProcessorMap() map[string]thrift.TProcessorFunction {
	return p.procs
}

func (p *LanguageModelServiceProcessor) AddToProcessorMap(name string, fn thrift.TProcessorFunction) {
	p.procs[name] = fn
}

func (p *LanguageModelServiceProcessor) Process(ctx context.Context, in, out thrift.TProtocol) (bool, thrift.TException) {
	name, _, seqID, err := in.ReadMessageBegin(ctx)
	if err != nil {
		return false, thrift.WrapTException(err)
	}
	if fn, ok := p.procs[name]; ok {
		return fn.Process(ctx, seqID, in, out)
	}
	// Unknown method: drain the arguments, answer with an application
	// exception, and drop the connection.
	if err := in.Skip(ctx, thrift.STRUCT); err != nil {
		return false, thrift.WrapTException(err)
	}
	if err := in.ReadMessageEnd(ctx); err != nil {
		return false, thrift.WrapTException(err)
	}
	ex := thrift.NewTApplicationException(thrift.UNKNOWN_METHOD, "unknown method "+name)
	if werr := writeException(ctx, out, name, seqID, ex); werr != nil {
		return false, thrift.WrapTException(werr)
	}
	return false, ex
}

type generateTextProc struct{ h LanguageModelService }

func (p *generateTextProc) Process(ctx context.Context, seqID int32, in, out thrift.TProtocol) (bool, thrift.TException) {
	var args generateTextArgs
	if err := args.Read(ctx, in); err != nil {
		_ = in.ReadMessageEnd(ctx)
		ex := thrift.NewTApplicationException(thrift.PROTOCOL_ERROR, err.Error())
		if werr := writeException(ctx, out, "generateText", seqID, ex); werr != nil {
			return false, thrift.WrapTException(werr)
		}
		return false, thrift.WrapTException(err)
	}
	if err := in.ReadMessageEnd(ctx); err != nil {
		return false, thrift.WrapTException(err)
	}

	var result generateTextResult
	resp, err := p.h.GenerateText(ctx, args.Request)
	if err != nil {
		var me *ModelError
		if !errors.As(err, &me) {
			// Undeclared fault: surface as an application exception.
			ex := thrift.NewTApplicationException(thrift.INTERNAL_ERROR, "generateText: "+err.Error())
			if werr := writeException(ctx, out, "generateText", seqID, ex); werr != nil {
				return false, thrift.WrapTException(werr)
			}
			return true, ex
		}
		result.Error = me
	} else {
		result.Success = resp
	}
	if werr := writeReply(ctx, out, "generateText", seqID, &result); werr != nil {
		return false, thrift.WrapTException(werr)
	}
	return true, nil
}

type classifyTextProc struct{ h LanguageModelService }

func (p *classifyTextProc) Process(ctx context.Context, seqID int32, in, out thrift.TProtocol) (bool, thrift.TException) {
	var args classifyTextArgs
	if err := args.Read(ctx, in); err != nil {
		_ = in.ReadMessageEnd(ctx)
		ex := thrift.NewTApplicationException(thrift.PROTOCOL_ERROR, err.Error())
		if werr := writeException(ctx, out, "classifyText", seqID, ex); werr != nil {
			return false, thrift.WrapTException(werr)
		}
		return false, thrift.WrapTException(err)
	}
	if err := in.ReadMessageEnd(ctx); err != nil {
		return false, thrift.WrapTException(err)
	}

	var result classifyTextResult
	resp, err := p.h.ClassifyText(ctx, args.Request)
	if err != nil {
		var me *ModelError
		if !errors.As(err, &me) {
			ex := thrift.NewTApplicationException(thrift.INTERNAL_ERROR, "classifyText: "+err.Error())
			if werr := writeException(ctx, out, "classifyText", seqID, ex); werr != nil {
				return false, thrift.WrapTException(werr)
			}
			return true, ex
		}
		result.Error = me
	} else {
		result.Success = resp
	}
	if werr := writeReply(ctx, out, "classifyText", seqID, &result); werr != nil {
		return false, thrift.WrapTException(werr)
	}
	return true, nil
}

// writeReply sends a normal REPLY envelope. Returned errors are I/O failures.
func writeReply(ctx context.Context, out thrift.TProtocol, method string, seqID int32, result thrift.TStruct) error {
	if err := out.WriteMessageBegin(ctx, method, thrift.REPLY, seqID); err != nil {
		return err
	}
	if err := result.Write(ctx, out); err != nil {
		return err
	}
	if err := out.WriteMessageEnd(ctx); err != nil {
		return err
	}
	return out.Flush(ctx)
}

// writeException sends an EXCEPTION envelope. Returned errors are I/O
// failures; the exception itself is the caller's to propagate.
func writeException(ctx context.Context, out thrift.TProtocol, method string, seqID int32, ex thrift.TApplicationException) error {
	if err := out.WriteMessageBegin(ctx, method, thrift.EXCEPTION, seqID); err != nil {
		return err
	}
	if err := ex.Write(ctx, out); err != nil {
		return err
	}
	if err := out.WriteMessageEnd(ctx); err != nil {
		return err
	}
	return out.Flush(ctx)
}
