package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"imageroll/internal/clipboard"
	"imageroll/internal/codec"
	"imageroll/internal/filelist"
	"imageroll/internal/imagelist"
	"imageroll/internal/operation"
	"imageroll/internal/photo"
)

var (
	editOps    []string
	editUndo   int
	editOutput string

	listSort int

	printCanvas string
	printOutput string

	copyDataURI bool
)

var editCmd = &cobra.Command{
	Use:   "edit <file>",
	Short: "Apply edit operations to an image without opening a window",
	Long: `Apply rotate, crop and resize operations in order, optionally undo the
last few, and save the result.

Operations:
  rotate:cw | rotate:ccw
  crop:x1,y1,x2,y2
  resize:WxH

Examples:
  imageroll edit photo.jpg --op rotate:cw --op resize:800x600
  imageroll edit photo.jpg --op crop:0,0,100,100 -o thumb.png`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src := args[0]
		img, err := photo.Load(src)
		if err != nil {
			return err
		}

		for _, s := range editOps {
			op, err := operation.Parse(s)
			if err != nil {
				return err
			}
			if !img.ApplyOperation(op) {
				return fmt.Errorf("cannot apply %s to the image", op)
			}
		}
		for i := 0; i < editUndo && img.CanUndoOperation(); i++ {
			img.UndoOperation()
		}

		out := editOutput
		if out == "" {
			out = src
		}
		// Overwriting the source clears the history, so read it first.
		applied := img.Operations()[:img.Cursor()+1]
		if err := img.Save(out, imagelist.SamePath(src, out)); err != nil {
			return err
		}

		w, h, _ := img.Size()
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %dx%d, %d operation(s) applied\n", out, w, h, len(applied))
		for _, op := range applied {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", op)
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list <file>",
	Short: "List the images next to a file in viewing order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := filelist.New(args[0], filelist.GetSortStrategy(listSort))
		if err != nil {
			return err
		}
		defer files.Close()

		current := files.CurrentIndex()
		for i, name := range files.Names() {
			marker := " "
			if i == current {
				marker = ">"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d/%d %s\n", marker, i+1, files.Len(), name)
		}
		return nil
	},
}

var printCmd = &cobra.Command{
	Use:   "print <file>",
	Short: "Render an image onto a page",
	Long: `Fit an image into a page canvas, shrinking only, and write the centered
page to an image file.

Example:
  imageroll print photo.jpg --canvas 1240x1754 -o page.png`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, h, err := operation.ParseDimensions(printCanvas)
		if err != nil {
			return err
		}
		img, err := photo.Load(args[0])
		if err != nil {
			return err
		}
		if printOutput == "" {
			return fmt.Errorf("an output file is required (-o)")
		}
		buf := img.CreatePrintBuffer(w, h)
		if err := codec.Save(printOutput, composePage(buf, w, h)); err != nil {
			return fmt.Errorf("failed to save %s: %w", printOutput, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %dx%d page\n", printOutput, w, h)
		return nil
	},
}

var copyCmd = &cobra.Command{
	Use:   "copy <file>",
	Short: "Copy an image to the clipboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		img, err := photo.Load(args[0])
		if err != nil {
			return err
		}
		if copyDataURI {
			uri, err := clipboard.DataURI(img.CurrentBuffer())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), uri)
			return nil
		}
		if clipboard.Unsupported() {
			return fmt.Errorf("clipboard is not available on this system")
		}
		return clipboard.New().CopyImage(img.CurrentBuffer())
	},
}

func init() {
	editCmd.Flags().StringArrayVar(&editOps, "op", nil, "operation to apply, repeatable")
	editCmd.Flags().IntVar(&editUndo, "undo", 0, "undo this many operations before saving")
	editCmd.Flags().StringVarP(&editOutput, "output", "o", "", "output file (default: overwrite the input)")

	listCmd.Flags().IntVar(&listSort, "sort", filelist.SortNatural, "sort method (0 natural, 1 simple)")

	printCmd.Flags().StringVar(&printCanvas, "canvas", fmt.Sprintf("%dx%d", defaultPrintWidth, defaultPrintHeight), "page size in pixels")
	printCmd.Flags().StringVarP(&printOutput, "output", "o", "", "page output file")

	copyCmd.Flags().BoolVar(&copyDataURI, "data-uri", false, "print a data URI instead of using the clipboard")

	rootCmd.AddCommand(editCmd, listCmd, printCmd, copyCmd)
}
