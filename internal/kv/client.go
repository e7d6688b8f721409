package kv

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"sync"
	"time"
)

// DefaultNamespace is the namespace the form service lives in.
const DefaultNamespace = "edge-form"

// Client is a TCP client for edgekv-server. Thread-safe via mutex.
//
// Protocol: each message is [4-byte little-endian length][JSON payload].
// Server responds with {"ok": true, "data": ...} or {"ok": false, "error": "..."}.
type Client struct {
	conn net.Conn
	ns   string
	mu   sync.Mutex
}

// Connect creates a new client connected to edgekv-server, scoped to the
// given namespace.
func Connect(host string, port int, namespace string, timeout time.Duration) (*Client, error) {
	addr := fmt.Sprintf("%s:%d", host, port)
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("kv: connect to %s: %w", addr, err)
	}
	conn.SetDeadline(time.Time{})
	return &Client{conn: conn, ns: namespace}, nil
}

// Close closes the TCP connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) sendRaw(data []byte) error {
	lenBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(lenBuf, uint32(len(data)))
	if _, err := c.conn.Write(lenBuf); err != nil {
		return err
	}
	_, err := c.conn.Write(data)
	return err
}

func (c *Client) recvRaw() ([]byte, error) {
	lenBuf := make([]byte, 4)
	if _, err := io.ReadFull(c.conn, lenBuf); err != nil {
		return nil, fmt.Errorf("kv: read length: %w", err)
	}
	length := binary.LittleEndian.Uint32(lenBuf)
	payload := make([]byte, length)
	if _, err := io.ReadFull(c.conn, payload); err != nil {
		return nil, fmt.Errorf("kv: read payload: %w", err)
	}
	return payload, nil
}

type response struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func (c *Client) request(payload map[string]any) (*response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("kv: marshal request: %w", err)
	}
	if err := c.sendRaw(jsonBytes); err != nil {
		return nil, fmt.Errorf("kv: send: %w", err)
	}
	respBytes, err := c.recvRaw()
	if err != nil {
		return nil, err
	}
	var resp response
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		return nil, fmt.Errorf("kv: unmarshal response: %w", err)
	}
	return &resp, nil
}

func (c *Client) checked(payload map[string]any) (json.RawMessage, error) {
	resp, err := c.request(payload)
	if err != nil {
		return nil, err
	}
	if !resp.OK {
		msg := resp.Error
		if msg == "" {
			msg = "unknown error"
		}
		return nil, &Error{Msg: msg}
	}
	return resp.Data, nil
}

// Ping sends a ping to the server. Returns "pong".
func (c *Client) Ping() (string, error) {
	data, err := c.checked(map[string]any{"op": "ping"})
	if err != nil {
		return "", err
	}
	var pong string
	if err := json.Unmarshal(data, &pong); err != nil {
		return "", fmt.Errorf("kv: unmarshal pong: %w", err)
	}
	return pong, nil
}

// Get returns the raw value stored under key, or ErrNotFound.
func (c *Client) Get(_ context.Context, key string) ([]byte, error) {
	data, err := c.checked(map[string]any{"op": "get", "ns": c.ns, "key": key})
	if err != nil {
		return nil, err
	}
	// A null data field means the key does not exist.
	if len(data) == 0 || string(data) == "null" {
		return nil, ErrNotFound
	}
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("kv: unmarshal value: %w", err)
	}
	return []byte(value), nil
}

// Put stores value under key, overwriting any previous value.
func (c *Client) Put(_ context.Context, key string, value []byte) error {
	_, err := c.checked(map[string]any{"op": "put", "ns": c.ns, "key": key, "value": string(value)})
	return err
}

// Delete removes key. Deleting an absent key is not an error.
func (c *Client) Delete(_ context.Context, key string) error {
	_, err := c.checked(map[string]any{"op": "delete", "ns": c.ns, "key": key})
	return err
}
