package rpc

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/apache/thrift/lib/go/thrift"
	"github.com/rs/zerolog"

	"inferd/internal/backend"
	"inferd/internal/mediator"
)

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// fakeBackend echoes the prompt followed by a canned reply, and counts
// tokens by whitespace splitting.
type fakeBackend struct {
	reply       string
	completeErr error

	lastPrompt string
	lastConfig backend.SamplingConfig
}

func (f *fakeBackend) Complete(ctx context.Context, prompt string, sc backend.SamplingConfig) (string, error) {
	f.lastPrompt = prompt
	f.lastConfig = sc
	if f.completeErr != nil {
		return "", f.completeErr
	}
	return prompt + f.reply, nil
}

func (f *fakeBackend) CountTokens(ctx context.Context, text string) (int, error) {
	return len(strings.Fields(text)), nil
}

func (f *fakeBackend) Name() string { return "fake" }
func (f *fakeBackend) Close() error { return nil }

// startTestServer brings up a real framed binary server on a loopback port
// and returns a connected client. Cleanup tears both down.
func startTestServer(t *testing.T, b backend.Backend) *Client {
	t.Helper()
	med := mediator.New(mediator.Config{
		Backend: b,
		Model:   "test-model",
		Logger:  zerolog.Nop(),
	})
	srv, err := NewServer("127.0.0.1:0", NewHandler(med, zerolog.Nop()), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if err := srv.Listen(); err != nil {
		t.Fatalf("Listen: %v", err)
	}
	go func() { _ = srv.Serve() }()
	t.Cleanup(func() {
		_ = srv.Stop()
		_ = med.Close()
	})

	client, err := Dial(srv.Addr().String(), time.Second, 5*time.Second)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestGenerateTextRoundTrip(t *testing.T) {
	fb := &fakeBackend{reply: " Once upon a time."}
	client := startTestServer(t, fb)

	resp, err := client.GenerateText(testCtx(t), &TextGenerationRequest{
		Prompt:      "Tell me a story",
		MaxLength:   64,
		Temperature: 0.7,
		TopK:        40,
		TopP:        0.9,
	})
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if resp.GeneratedText != "Once upon a time." {
		t.Fatalf("GeneratedText = %q", resp.GeneratedText)
	}
	if resp.InputTokens != 4 {
		t.Fatalf("InputTokens = %d, want 4", resp.InputTokens)
	}
	if resp.GeneratedTokens != 4 {
		t.Fatalf("GeneratedTokens = %d, want 4", resp.GeneratedTokens)
	}
	if resp.GenerationTime < 0 {
		t.Fatalf("GenerationTime = %f", resp.GenerationTime)
	}
	if fb.lastConfig.MaxLength != 64 {
		t.Fatalf("backend MaxLength = %d, want 64", fb.lastConfig.MaxLength)
	}
	if fb.lastConfig.Greedy {
		t.Fatal("generation must not force greedy sampling")
	}
	if !strings.Contains(fb.lastPrompt, "Tell me a story") {
		t.Fatalf("backend prompt %q is missing the caller prompt", fb.lastPrompt)
	}
}

func TestClassifyTextRoundTrip(t *testing.T) {
	fb := &fakeBackend{reply: " positive"}
	client := startTestServer(t, fb)

	resp, err := client.ClassifyText(testCtx(t), &TextClassificationRequest{
		Text:   "I loved this movie",
		Labels: []string{"positive", "negative", "neutral"},
	})
	if err != nil {
		t.Fatalf("ClassifyText: %v", err)
	}
	if resp.Label != "positive" {
		t.Fatalf("Label = %q, want positive", resp.Label)
	}
	if resp.Confidence != 0.95 {
		t.Fatalf("Confidence = %f, want 0.95", resp.Confidence)
	}
	if !fb.lastConfig.Greedy {
		t.Fatal("classification must force greedy sampling")
	}
}

func TestValidationErrorReachesClient(t *testing.T) {
	client := startTestServer(t, &fakeBackend{reply: " hi"})

	_, err := client.GenerateText(testCtx(t), &TextGenerationRequest{
		Prompt:      "",
		MaxLength:   10,
		Temperature: 1.0,
		TopK:        50,
		TopP:        0.95,
	})
	if err == nil {
		t.Fatal("expected an error for an empty prompt")
	}
	var me *ModelError
	if !errors.As(err, &me) {
		t.Fatalf("error %T is not a ModelError: %v", err, err)
	}
	if me.Message != "Invalid generation request" {
		t.Fatalf("Message = %q", me.Message)
	}
	if me.Details == "" {
		t.Fatal("Details should name the failed check")
	}
}

func TestBackendErrorReachesClient(t *testing.T) {
	client := startTestServer(t, &fakeBackend{completeErr: errors.New("device exploded")})

	_, err := client.GenerateText(testCtx(t), &TextGenerationRequest{
		Prompt:      "hello",
		MaxLength:   10,
		Temperature: 1.0,
		TopK:        50,
		TopP:        0.95,
	})
	var me *ModelError
	if !errors.As(err, &me) {
		t.Fatalf("error %T is not a ModelError: %v", err, err)
	}
	if me.Message != "Failed to generate text" {
		t.Fatalf("Message = %q", me.Message)
	}
	if !strings.Contains(me.Details, "device exploded") {
		t.Fatalf("Details = %q", me.Details)
	}
}

// stubService lets processor tests run against canned results without a
// mediator behind them.
type stubService struct {
	genResp *TextGenerationResponse
	genErr  error
	clsResp *TextClassificationResponse
	clsErr  error
}

func (s *stubService) GenerateText(ctx context.Context, _ *TextGenerationRequest) (*TextGenerationResponse, error) {
	return s.genResp, s.genErr
}

func (s *stubService) ClassifyText(ctx context.Context, _ *TextClassificationRequest) (*TextClassificationResponse, error) {
	return s.clsResp, s.clsErr
}

func TestProcessorRejectsUnknownMethod(t *testing.T) {
	ctx := testCtx(t)
	in := thrift.NewTMemoryBuffer()
	out := thrift.NewTMemoryBuffer()
	iprot := thrift.NewTBinaryProtocolConf(in, nil)
	oprot := thrift.NewTBinaryProtocolConf(out, nil)

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("write call: %v", err)
		}
	}
	must(iprot.WriteMessageBegin(ctx, "nope", thrift.CALL, 7))
	must(iprot.WriteStructBegin(ctx, "nope_args"))
	must(iprot.WriteFieldStop(ctx))
	must(iprot.WriteStructEnd(ctx))
	must(iprot.WriteMessageEnd(ctx))
	must(iprot.Flush(ctx))

	proc := NewLanguageModelServiceProcessor(&stubService{})
	ok, perr := proc.Process(ctx, iprot, oprot)
	if ok {
		t.Fatal("unknown method must not report success")
	}
	if perr == nil {
		t.Fatal("unknown method must surface an error")
	}

	name, typeID, seqID, err := oprot.ReadMessageBegin(ctx)
	if err != nil {
		t.Fatalf("ReadMessageBegin: %v", err)
	}
	if name != "nope" || typeID != thrift.EXCEPTION || seqID != 7 {
		t.Fatalf("reply envelope = (%q, %v, %d)", name, typeID, seqID)
	}
	appErr := thrift.NewTApplicationException(thrift.UNKNOWN_APPLICATION_EXCEPTION, "")
	if err := appErr.Read(ctx, oprot); err != nil {
		t.Fatalf("read exception: %v", err)
	}
	if appErr.TypeId() != thrift.UNKNOWN_METHOD {
		t.Fatalf("TypeId = %d, want UNKNOWN_METHOD", appErr.TypeId())
	}
	if !strings.Contains(appErr.Error(), "nope") {
		t.Fatalf("exception %q should name the method", appErr.Error())
	}
}

func TestProcessorWritesDeclaredException(t *testing.T) {
	ctx := testCtx(t)
	in := thrift.NewTMemoryBuffer()
	out := thrift.NewTMemoryBuffer()
	iprot := thrift.NewTBinaryProtocolConf(in, nil)
	oprot := thrift.NewTBinaryProtocolConf(out, nil)

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("write call: %v", err)
		}
	}
	must(iprot.WriteMessageBegin(ctx, "generateText", thrift.CALL, 3))
	args := &generateTextArgs{Request: &TextGenerationRequest{Prompt: "hi", MaxLength: 10, Temperature: 1, TopK: 50, TopP: 0.95}}
	must(args.Write(ctx, iprot))
	must(iprot.WriteMessageEnd(ctx))
	must(iprot.Flush(ctx))

	svc := &stubService{genErr: &ModelError{Message: "Model busy", Details: "no inference slot"}}
	proc := NewLanguageModelServiceProcessor(svc)
	ok, perr := proc.Process(ctx, iprot, oprot)
	if !ok || perr != nil {
		t.Fatalf("Process = (%v, %v), want declared exception to count as handled", ok, perr)
	}

	name, typeID, _, err := oprot.ReadMessageBegin(ctx)
	if err != nil {
		t.Fatalf("ReadMessageBegin: %v", err)
	}
	if name != "generateText" || typeID != thrift.REPLY {
		t.Fatalf("reply envelope = (%q, %v)", name, typeID)
	}
	var result generateTextResult
	if err := result.Read(ctx, oprot); err != nil {
		t.Fatalf("read result: %v", err)
	}
	if result.Success != nil {
		t.Fatal("declared exception must not carry a success payload")
	}
	if result.Error == nil || result.Error.Message != "Model busy" {
		t.Fatalf("result.Error = %+v", result.Error)
	}
}

func TestGenerationRequestDefaultsOnPartialRead(t *testing.T) {
	ctx := testCtx(t)
	mb := thrift.NewTMemoryBuffer()
	proto := thrift.NewTBinaryProtocolConf(mb, nil)

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("write request: %v", err)
		}
	}
	// A request carrying only the prompt field, the way a client that
	// omits optional fields would send it.
	must(proto.WriteStructBegin(ctx, "generateText_args"))
	must(proto.WriteFieldBegin(ctx, "request", thrift.STRUCT, 1))
	must(proto.WriteStructBegin(ctx, "TextGenerationRequest"))
	must(proto.WriteFieldBegin(ctx, "prompt", thrift.STRING, 1))
	must(proto.WriteString(ctx, "hello"))
	must(proto.WriteFieldEnd(ctx))
	must(proto.WriteFieldStop(ctx))
	must(proto.WriteStructEnd(ctx))
	must(proto.WriteFieldEnd(ctx))
	must(proto.WriteFieldStop(ctx))
	must(proto.WriteStructEnd(ctx))
	must(proto.Flush(ctx))

	var args generateTextArgs
	if err := args.Read(ctx, proto); err != nil {
		t.Fatalf("read args: %v", err)
	}
	req := args.Request
	if req == nil {
		t.Fatal("request field not decoded")
	}
	if req.Prompt != "hello" {
		t.Fatalf("Prompt = %q", req.Prompt)
	}
	if req.MaxLength != 100 || req.Temperature != 1.0 || req.TopK != 50 || req.TopP != 0.95 {
		t.Fatalf("defaults not applied: %+v", req)
	}
}

func TestHandlerNilRequest(t *testing.T) {
	med := mediator.New(mediator.Config{
		Backend: &fakeBackend{reply: " hi"},
		Model:   "test-model",
		Logger:  zerolog.Nop(),
	})
	t.Cleanup(func() { _ = med.Close() })
	h := NewHandler(med, zerolog.Nop())

	_, err := h.GenerateText(testCtx(t), nil)
	var me *ModelError
	if !errors.As(err, &me) {
		t.Fatalf("error %T is not a ModelError: %v", err, err)
	}
	if me.Message != "Invalid generation request" {
		t.Fatalf("Message = %q", me.Message)
	}

	_, err = h.ClassifyText(testCtx(t), nil)
	if !errors.As(err, &me) {
		t.Fatalf("error %T is not a ModelError: %v", err, err)
	}
	if me.Message != "Invalid classification request" {
		t.Fatalf("Message = %q", me.Message)
	}
}

func TestWireError(t *testing.T) {
	me := wireError(&mediator.ModelError{Message: "Failed to classify text", Details: "boom"})
	if me.Message != "Failed to classify text" || me.Details != "boom" {
		t.Fatalf("wireError mapped to %+v", me)
	}
	me = wireError(errors.New("boom"))
	if me.Message != "Internal error" || me.Details != "boom" {
		t.Fatalf("wireError fallback = %+v", me)
	}
}
