package main

import (
	"fmt"
	"io"
	"net"
	"os"

	"github.com/spf13/cobra"

	"fnplot.com/master/expr"
	"fnplot.com/master/plot"
	"fnplot.com/master/render"
	"fnplot.com/worker/client"
)

var rootCmd = &cobra.Command{
	Use:   "worker",
	Short: "Plot worker: fetch sampled curves from a plot master",
	Long: `worker asks a plot master for the samples of a function, its derivative
or its running integral over [-10, 10] and prints them as a table, optionally
rendering a PNG.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var curveCmd = &cobra.Command{
	Use:   "curve",
	Short: "Sample a function on the master over RPC",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := readCurveFlags(cmd)
		if err != nil {
			return err
		}

		masterAddr, _ := cmd.Flags().GetString("master")
		port, _ := cmd.Flags().GetInt("port")
		name, _ := cmd.Flags().GetString("name")
		ip := net.ParseIP(masterAddr)
		if ip == nil {
			return fmt.Errorf("invalid master IP address: %s", masterAddr)
		}

		c := client.NewClient(ip, port, name)
		if err := c.Connect(); err != nil {
			return err
		}
		defer c.Close()

		curve, err := c.Visualize(opts.function, opts.mode)
		if err != nil {
			return err
		}
		return opts.output(cmd.OutOrStdout(), curve)
	},
}

var localCmd = &cobra.Command{
	Use:   "local",
	Short: "Sample a function in-process without a master",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := readCurveFlags(cmd)
		if err != nil {
			return err
		}

		curve, err := plot.NewEngine(expr.Compiler{}).Visualize(opts.function, opts.mode)
		if err != nil {
			return err
		}
		return opts.output(cmd.OutOrStdout(), curve)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the master request statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		masterAddr, _ := cmd.Flags().GetString("master")
		port, _ := cmd.Flags().GetInt("port")
		name, _ := cmd.Flags().GetString("name")
		ip := net.ParseIP(masterAddr)
		if ip == nil {
			return fmt.Errorf("invalid master IP address: %s", masterAddr)
		}

		c := client.NewClient(ip, port, name)
		if err := c.Connect(); err != nil {
			return err
		}
		defer c.Close()

		stats, err := c.Stats()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "requests:          %d\n", stats.TotalRequests)
		fmt.Fprintf(out, "compile errors:    %d\n", stats.CompileErrors)
		fmt.Fprintf(out, "evaluation errors: %d\n", stats.EvaluationErrors)
		fmt.Fprintf(out, "invalid modes:     %d\n", stats.InvalidModes)
		fmt.Fprintf(out, "gap samples:       %d\n", stats.GapSamples)
		for _, m := range plot.Modes {
			fmt.Fprintf(out, "  %-11s %d\n", m.String()+":", stats.RequestsByMode[m.String()])
		}
		return nil
	},
}

type curveOptions struct {
	function string
	mode     plot.Mode
	every    int
	png      string
	width    int
	height   int
}

func readCurveFlags(cmd *cobra.Command) (curveOptions, error) {
	var opts curveOptions
	opts.function, _ = cmd.Flags().GetString("function")
	if opts.function == "" {
		return opts, fmt.Errorf("please enter a function with --function")
	}
	modeName, _ := cmd.Flags().GetString("type")
	mode, err := plot.ParseMode(modeName)
	if err != nil {
		return opts, err
	}
	opts.mode = mode
	opts.every, _ = cmd.Flags().GetInt("every")
	opts.png, _ = cmd.Flags().GetString("png")
	opts.width, _ = cmd.Flags().GetInt("width")
	opts.height, _ = cmd.Flags().GetInt("height")
	return opts, nil
}

func (o curveOptions) output(w io.Writer, curve *plot.Curve) error {
	if err := client.WriteTable(w, curve, o.every); err != nil {
		return err
	}
	if o.png == "" {
		return nil
	}

	// An unplottable curve must not leave a file behind.
	ch, err := render.Chart(curve, o.width, o.height)
	if err != nil {
		return err
	}
	f, err := os.Create(o.png)
	if err != nil {
		return err
	}
	if err := render.Encode(f, ch); err != nil {
		f.Close()
		os.Remove(o.png)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(w, "plot written to %s\n", o.png)
	return nil
}

func addCurveFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("function", "f", "", "function of x, e.g. \"x^2 - 3*sin(x)\"")
	cmd.Flags().StringP("type", "t", "function", "function, derivative or integral")
	cmd.Flags().Int("every", 50, "print every nth sample")
	cmd.Flags().String("png", "", "also render the curve to this PNG file")
	cmd.Flags().Int("width", 800, "PNG width in pixels")
	cmd.Flags().Int("height", 500, "PNG height in pixels")
}

func init() {
	rootCmd.PersistentFlags().String("master", "127.0.0.1", "Master IP address")
	rootCmd.PersistentFlags().Int("port", 3410, "Master RPC port")
	rootCmd.PersistentFlags().String("name", "worker-1", "Name reported to the master")

	addCurveFlags(curveCmd)
	addCurveFlags(localCmd)
	rootCmd.AddCommand(curveCmd, localCmd, statsCmd)
}
