// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/consensys/go-classfile/pkg/classfile"
	"github.com/consensys/go-classfile/pkg/classfile/attribute"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] class_file(s)",
	Short: "Inspect the structure and attributes of class files.",
	Long: `Inspect the structure and attributes of one or more class files.
	Malformed attributes are reported, but do not prevent the remainder of a
	class from being inspected.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) < 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		members := GetFlag(cmd, "members")
		width := GetUint(cmd, "textwidth")
		failed := false
		//
		for _, filename := range args {
			err := withClassFile(filename, func(model *classfile.ClassModel) error {
				printRows(inspectClass(model, members), width)
				return nil
			})
			//
			if err != nil {
				log.Error(err)
				//
				failed = true
			}
		}
		//
		if failed {
			os.Exit(1)
		}
	},
}

// Produce the rows describing a given class.
func inspectClass(model *classfile.ClassModel, members bool) [][]string {
	var rows [][]string
	//
	rows = append(rows, []string{"class", model.ThisClass().InternalName()})
	rows = append(rows, []string{"version", fmt.Sprintf("%d.%d", model.Version().Major, model.Version().Minor)})
	rows = append(rows, []string{"flags", fmt.Sprintf("0x%04x", uint16(model.Flags()))})
	//
	if super := model.Superclass(); super != nil {
		rows = append(rows, []string{"super", super.InternalName()})
	}
	//
	for _, c := range model.Interfaces() {
		rows = append(rows, []string{"interface", c.InternalName()})
	}
	//
	rows = append(rows, []string{"pool", fmt.Sprintf("%d entries", model.Pool().Size())})
	rows = append(rows, attributeRows("", model.Attributes())...)
	// Permitted subclasses are decoded explicitly, so errors are visible.
	if ps, ok := attribute.Find[attribute.PermittedSubclasses](model.Attributes()); ok {
		if classes, err := ps.PermittedSubclasses(); err != nil {
			rows = append(rows, []string{"permits", "error: " + err.Error()})
		} else {
			for _, c := range classes {
				rows = append(rows, []string{"permits", c.InternalName()})
			}
		}
	}
	//
	if members {
		for _, f := range model.Fields() {
			rows = append(rows, []string{"field", f.Name().Value() + ":" + f.Descriptor().Value()})
			rows = append(rows, attributeRows("  ", f.Attributes())...)
		}
		//
		for _, m := range model.Methods() {
			rows = append(rows, []string{"method", m.Name().Value() + m.Descriptor().Value()})
			rows = append(rows, attributeRows("  ", m.Attributes())...)
		}
	}
	//
	return rows
}

func attributeRows(indent string, attributes []attribute.Attribute) [][]string {
	rows := make([][]string, len(attributes))
	//
	for i, attr := range attributes {
		rows[i] = []string{indent + "attribute", attr.String()}
	}
	//
	return rows
}

// Print rows either as an aligned table (when writing to a terminal) or as tab
// separated lines (otherwise).  On a terminal, lines are clipped to the given
// width, or the terminal width when this is zero.
func printRows(rows [][]string, width uint) {
	fd := int(os.Stdout.Fd())
	//
	if !term.IsTerminal(fd) {
		for _, row := range rows {
			fmt.Println(strings.Join(row, "\t"))
		}
		//
		return
	}
	//
	if width == 0 {
		if w, _, err := term.GetSize(fd); err == nil {
			width = uint(w)
		}
	}
	// Determine column widths
	var widths []int
	//
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			//
			widths[i] = max(widths[i], len(cell))
		}
	}
	//
	for _, row := range rows {
		var line strings.Builder
		//
		for i, cell := range row {
			if i+1 < len(row) {
				fmt.Fprintf(&line, "%-*s  ", widths[i], cell)
			} else {
				line.WriteString(cell)
			}
		}
		//
		fmt.Println(clip(line.String(), width))
	}
}

func clip(line string, width uint) string {
	if width > 3 && uint(len(line)) > width {
		return line[:width-3] + "..."
	}
	//
	return line
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().BoolP("members", "m", false, "include fields and methods")
	inspectCmd.Flags().Uint("textwidth", 0, "maximum line width (0 for terminal width)")
}
