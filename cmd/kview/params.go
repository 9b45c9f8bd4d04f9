package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/san-kum/kview/internal/params"
	"github.com/san-kum/kview/internal/tui"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

func showParams(cmd *cobra.Command, args []string) error {
	l, err := params.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Println(tui.Title.Render(l.Name()))
	printTree(os.Stdout, l, 1)
	return nil
}

func printTree(w io.Writer, l *params.List, depth int) {
	pad := strings.Repeat("  ", depth)
	for _, key := range l.Keys() {
		e, _ := l.Get(key)
		if sub, ok := e.(*params.List); ok {
			fmt.Fprintf(w, "%s%s %s\n", pad, key, tui.Subtle.Render("("+params.TypeName(e)+")"))
			printTree(w, sub, depth+1)
			continue
		}
		fmt.Fprintf(w, "%s%s %s = %s\n", pad, key, tui.Subtle.Render("("+params.TypeName(e)+")"), params.FormatEntry(e))
	}
}

func formatParams(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := klog.FromContext(ctx)

	l, err := params.Load(ctx, args[0])
	if err != nil {
		return err
	}
	for _, u := range updates {
		if err := params.UpdateFromString(l, u, true); err != nil {
			return fmt.Errorf("--set: %w", err)
		}
	}

	if floatFormat != "g" && floatFormat != "e" {
		return fmt.Errorf("--float must be g or e, got %q", floatFormat)
	}
	opt := params.FloatFormat(floatFormat[0])

	if outURI == "" {
		return params.Write(os.Stdout, l, opt)
	}
	if err := params.Save(ctx, outURI, l, opt); err != nil {
		return err
	}
	log.Info("wrote parameter list", "uri", outURI, "entries", l.Len())
	return nil
}

func browseParams(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	uri := args[0]

	l, err := params.Load(ctx, uri)
	if err != nil {
		return err
	}
	return tui.Run(l, func(edited *params.List) error {
		return params.Save(ctx, uri, edited)
	})
}
