package commands

// Commands to manage the stored values from the shell
// Same numbering as the Telegram /list: values are counted from 1

import (
	"errors"
	"fmt"
	"strconv"

	"line-chart/internal/features/values"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <value>",
	Short: "Add a value stamped with the current time",
	Long:  `Add a value to the stored list. Text that is not a number is stored as 0.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAdd,
}

var removeCmd = &cobra.Command{
	Use:   "remove <n>",
	Short: "Remove value number n as shown by list",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the stored values",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	_, point, err := a.control.Submit(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "added %s at %s\n",
		strconv.FormatFloat(point.Value, 'f', -1, 64), values.TimeLabel(point.Date))
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid value number %q", args[0])
	}

	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.control.RemoveStrict(n - 1); err != nil {
		if errors.Is(err, values.ErrIndexOutOfRange) {
			return fmt.Errorf("there is no value number %d", n)
		}
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed value number %d\n", n)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	points := a.control.Points()
	if len(points) == 0 {
		fmt.Fprintln(out, "no values")
		return nil
	}
	for i, p := range points {
		fmt.Fprintf(out, "%d\t%s\t%s\n", i+1, values.TimeLabel(p.Date), strconv.FormatFloat(p.Value, 'f', -1, 64))
	}
	return nil
}
