package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"likeness/internal/logging"
	"likeness/internal/signature"
)

func newRefsCommand(ctx *commandContext) *cobra.Command {
	refsCmd := &cobra.Command{
		Use:   "refs",
		Short: "Inspect and manage reference signatures",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRefsList(cmd, ctx)
		},
	}

	refsCmd.AddCommand(newRefsListCommand(ctx))
	refsCmd.AddCommand(newRefsAddCommand(ctx))

	return refsCmd
}

func newRefsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List reference signatures in precedence order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRefsList(cmd, ctx)
		},
	}
}

func runRefsList(cmd *cobra.Command, ctx *commandContext) error {
	store, err := ctx.loadReferences()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d reference(s), %d bits each\n", store.Len(), store.BitLength())

	tw := newTable(out, table.Row{"#", "Name", "Signature"}, 1)
	position := 0
	store.ForEach(func(name string, sig signature.Signature) bool {
		position++
		tw.AppendRow(table.Row{position, name, sig.Hex()})
		return true
	})
	tw.Render()
	return nil
}

func newRefsAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <image-file>",
		Short: "Compute a signature from a local image and append it to the references",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			name, imagePath := args[0], args[1]

			data, err := os.ReadFile(imagePath)
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}

			computer := signature.NewComputer(nil, logging.NewNop(), cfg.References.HashWidth, cfg.References.HashHeight)
			sig, err := computer.FromImageBytes(data)
			if err != nil {
				return fmt.Errorf("hash image: %w", err)
			}

			entries := []signature.Entry{}
			existing, err := signature.LoadStore(cfg.References.Path)
			switch {
			case err == nil:
				entries = existing.Entries()
			case errors.Is(err, fs.ErrNotExist):
				// First reference; a new file is created below.
			default:
				return fmt.Errorf("load references %s: %w", cfg.References.Path, err)
			}

			entries = append(entries, signature.Entry{Name: name, Signature: sig})
			store, err := signature.NewStore(entries...)
			if err != nil {
				return err
			}
			if err := store.WriteFile(cfg.References.Path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added reference %q (%d bits) to %s\n", name, sig.Len(), cfg.References.Path)
			return nil
		},
	}
}
