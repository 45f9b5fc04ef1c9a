package rpc

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frame(t *testing.T, body string) string {
	t.Helper()
	return fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(body), body)
}

func TestServer_DispatchesRequestAndFramesResponse(t *testing.T) {
	in := bytes.NewBufferString(frame(t, `{"jsonrpc":"2.0","id":1,"method":"ping","params":{}}`))
	out := &bytes.Buffer{}

	s := NewServer(in, out)
	s.Register("ping", func(params json.RawMessage) (any, error) {
		return map[string]string{"pong": "ok"}, nil
	})

	require.NoError(t, s.Serve())

	msg := readFramedTestMessage(t, out)
	var resp Response
	require.NoError(t, json.Unmarshal(msg, &resp))
	assert.Nil(t, resp.Error)
	assert.Equal(t, json.RawMessage("1"), resp.ID)
}

func TestServer_UnknownMethodReturnsMethodNotFound(t *testing.T) {
	in := bytes.NewBufferString(frame(t, `{"jsonrpc":"2.0","id":2,"method":"bogus"}`))
	out := &bytes.Buffer{}

	s := NewServer(in, out)
	require.NoError(t, s.Serve())

	msg := readFramedTestMessage(t, out)
	var resp Response
	require.NoError(t, json.Unmarshal(msg, &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrMethodNotFound, resp.Error.Code)
}

func TestServer_NotificationGetsNoResponse(t *testing.T) {
	in := bytes.NewBufferString(frame(t, `{"jsonrpc":"2.0","method":"didOpen","params":{}}`))
	out := &bytes.Buffer{}

	called := false
	s := NewServer(in, out)
	s.Register("didOpen", func(params json.RawMessage) (any, error) {
		called = true
		return nil, nil
	})

	require.NoError(t, s.Serve())
	assert.True(t, called)
	assert.Empty(t, out.Bytes())
}

func readFramedTestMessage(t *testing.T, buf *bytes.Buffer) []byte {
	t.Helper()
	r := bufio.NewReader(buf)
	msg, err := readMessage(r)
	require.NoError(t, err)
	return msg
}
