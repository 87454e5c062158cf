package client

import (
	"bytes"
	"net"
	"net/rpc"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fnplot.com/master/expr"
	"fnplot.com/master/logging"
	"fnplot.com/master/plot"
	"fnplot.com/master/shared"
)

func connectedClient(t *testing.T) *Client {
	t.Helper()
	logger := logging.NewNop()
	engine := plot.NewEngine(expr.Compiler{})

	server := rpc.NewServer()
	require.NoError(t, server.Register(shared.NewPlotRPC(engine, nil, logger)))

	serverConn, clientConn := net.Pipe()
	go server.ServeConn(serverConn)

	c := NewClientWith(rpc.NewClient(clientConn), "test-worker")
	t.Cleanup(func() { c.Close() })
	return c
}

func TestClient_Visualize(t *testing.T) {
	c := connectedClient(t)

	curve, err := c.Visualize("x^2", plot.ModeDerivative)
	require.NoError(t, err)
	assert.Equal(t, plot.ModeDerivative, curve.Mode)
	assert.Equal(t, "x^2", curve.Text)
	assert.Equal(t, "f'(x) = 2*x", curve.Label)
	require.Len(t, curve.Samples, 1001)
	assert.InDelta(t, 10.0, curve.Samples[750].Y, 1e-9)

	_, err = c.Visualize("1/x", plot.ModeIntegral)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PlotRPC.Visualize")

	stats, err := c.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalRequests)
	assert.Equal(t, 1, stats.EvaluationErrors)
}

func TestClient_ConnectFails(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	c := NewClient(net.ParseIP("127.0.0.1"), port, "w")
	err = c.Connect()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to dial master")
	assert.NoError(t, c.Close())
}

func TestWriteTable(t *testing.T) {
	curve := &plot.Curve{
		Mode:  plot.ModeValue,
		Text:  "1/x",
		Label: "f(x) = 1/x",
		Samples: []plot.Sample{
			{X: -2, Y: -0.5},
			{X: -1, Y: -1},
			{X: 0, Gap: true},
			{X: 1, Y: 1},
			{X: 2, Y: 0.5},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, curve, 2))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "f(x) = 1/x", lines[0])
	assert.Equal(t, []string{"x", "y"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"-2.00", "-0.500000"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"0.00", "gap"}, strings.Fields(lines[3]))
	assert.Equal(t, []string{"2.00", "0.500000"}, strings.Fields(lines[4]))

	buf.Reset()
	require.NoError(t, WriteTable(&buf, curve, 3))
	lines = strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, []string{"1.00", "1.000000"}, strings.Fields(lines[3]))
	// The last sample is always printed.
	assert.Equal(t, []string{"2.00", "0.500000"}, strings.Fields(lines[4]))

	buf.Reset()
	require.NoError(t, WriteTable(&buf, curve, 0))
	assert.Len(t, strings.Split(strings.TrimRight(buf.String(), "\n"), "\n"), 7)
}
