package rpc

import (
	"context"
	"time"

	"github.com/apache/thrift/lib/go/thrift"
)

// Client is a framed binary thrift client for the language model service.
// It holds one connection and is not safe for concurrent use; open a client
// per caller or serialize calls externally.
type Client struct {
	transport thrift.TTransport
	c         *thrift.TStandardClient
}

var _ LanguageModelService = (*Client)(nil)

// Dial connects to a language model server at addr and performs the
// transport handshake. socketTimeout bounds individual reads and writes,
// which for this service means it must cover a full model inference.
func Dial(addr string, connectTimeout, socketTimeout time.Duration) (*Client, error) {
	conf := &thrift.TConfiguration{
		ConnectTimeout: connectTimeout,
		SocketTimeout:  socketTimeout,
	}
	sock := thrift.NewTSocketConf(addr, conf)
	transport := thrift.NewTFramedTransportConf(sock, conf)
	if err := transport.Open(); err != nil {
		return nil, err
	}
	protocol := thrift.NewTBinaryProtocolFactoryConf(conf).GetProtocol(transport)
	return &Client{
		transport: transport,
		c:         thrift.NewTStandardClient(protocol, protocol),
	}, nil
}

func (c *Client) GenerateText(ctx context.Context, request *TextGenerationRequest) (*TextGenerationResponse, error) {
	args := &generateTextArgs{Request: request}
	var result generateTextResult
	if _, err := c.c.Call(ctx, "generateText", args, &result); err != nil {
		return nil, err
	}
	if result.Error != nil {
		return nil, result.Error
	}
	if result.Success == nil {
		return nil, thrift.NewTApplicationException(thrift.MISSING_RESULT, "generateText failed: unknown result")
	}
	return result.Success, nil
}

func (c *Client) ClassifyText(ctx context.Context, request *TextClassificationRequest) (*TextClassificationResponse, error) {
	args := &classifyTextArgs{Request: request}
	var result classifyTextResult
	if _, err := c.c.Call(ctx, "classifyText", args, &result); err != nil {
		return nil, err
	}
	if result.Error != nil {
		return nil, result.Error
	}
	if result.Success == nil {
		return nil, thrift.NewTApplicationException(thrift.MISSING_RESULT, "classifyText failed: unknown result")
	}
	return result.Success, nil
}

// Close tears down the underlying connection.
func (c *Client) Close() error {
	return c.transport.Close()
}
