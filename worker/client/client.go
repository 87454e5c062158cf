package client

import (
	"fmt"
	"io"
	"net"
	"net/rpc"
	"strconv"
	"text/tabwriter"

	"fnplot.com/master/plot"
	"fnplot.com/master/shared"
)

// Client asks a master for curves over RPC.
type Client struct {
	masterAddr net.TCPAddr
	client     *rpc.Client
	workerName string
}

func NewClient(masterIP net.IP, port int, workerName string) *Client {
	return &Client{
		masterAddr: net.TCPAddr{
			IP:   masterIP,
			Port: port,
		},
		workerName: workerName,
	}
}

// NewClientWith wraps an established RPC connection.
func NewClientWith(c *rpc.Client, workerName string) *Client {
	return &Client{client: c, workerName: workerName}
}

// Connect dials the master.
func (c *Client) Connect() error {
	client, err := rpc.Dial("tcp", c.masterAddr.String())
	if err != nil {
		return fmt.Errorf("unable to dial master %s: %w", c.masterAddr.String(), err)
	}
	c.client = client
	return nil
}

func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Visualize asks the master to sample text in the given mode.
func (c *Client) Visualize(text string, mode plot.Mode) (*plot.Curve, error) {
	args := &shared.VisualizeArgs{
		WorkerName: c.workerName,
		Function:   text,
		Type:       mode.String(),
	}
	var reply shared.VisualizeReply
	if err := c.client.Call("PlotRPC.Visualize", args, &reply); err != nil {
		return nil, fmt.Errorf("PlotRPC.Visualize: %w", err)
	}
	return reply.Curve(text, mode), nil
}

// Stats fetches the master request statistics.
func (c *Client) Stats() (shared.StatsReply, error) {
	var reply shared.StatsReply
	err := c.client.Call("PlotRPC.Stats", &shared.StatsArgs{WorkerName: c.workerName}, &reply)
	if err != nil {
		return reply, fmt.Errorf("PlotRPC.Stats: %w", err)
	}
	return reply, nil
}

// WriteTable prints the label and every nth sample of curve, always
// including the last one. Gaps print as "gap".
func WriteTable(w io.Writer, curve *plot.Curve, every int) error {
	if every < 1 {
		every = 1
	}
	if _, err := fmt.Fprintln(w, curve.Label); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "x\ty\t")
	last := len(curve.Samples) - 1
	for i, s := range curve.Samples {
		if i%every != 0 && i != last {
			continue
		}
		y := "gap"
		if !s.Gap {
			y = strconv.FormatFloat(s.Y, 'f', 6, 64)
		}
		fmt.Fprintf(tw, "%s\t%s\t\n", strconv.FormatFloat(s.X, 'f', 2, 64), y)
	}
	return tw.Flush()
}
