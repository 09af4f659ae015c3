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

	"github.com/consensys/go-classfile/pkg/classfile"
	"github.com/consensys/go-classfile/pkg/classfile/attribute"
	"github.com/consensys/go-classfile/pkg/classfile/constantpool"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite [flags] class_file",
	Short: "Rewrite a class file using a fresh constant pool.",
	Long: `Rewrite a class file into a fresh constant pool, such that only the
	entries actually referenced are retained.  Every recognised attribute is
	decoded and re-resolved against the new pool.  Unknown attributes (including
	method bodies) cannot be remapped, so by default the rewrite fails if there
	are any.  Use --drop-unknown to discard them, or --copy-unknown to copy them
	as is (which is only correct when they contain no pool indices).`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		output := GetString(cmd, "output")
		drop := GetFlag(cmd, "drop-unknown")
		copyUnknown := GetFlag(cmd, "copy-unknown")
		//
		if output == "" {
			output = args[0]
		}
		//
		if drop && copyUnknown {
			fmt.Println("--drop-unknown and --copy-unknown are mutually exclusive")
			os.Exit(2)
		}
		//
		var bytes []byte
		//
		err := withClassFile(args[0], func(model *classfile.ClassModel) error {
			var err error
			bytes, err = rewriteClass(model, drop, copyUnknown)
			//
			return err
		})
		//
		if err == nil {
			err = writeClassFile(output, bytes)
		}
		//
		if err != nil {
			log.Error(err)
			os.Exit(1)
		}
	},
}

// Rewrite a class into a fresh pool, applying a given policy to unknown
// attributes.
func rewriteClass(model *classfile.ClassModel, drop bool, copyUnknown bool) ([]byte, error) {
	if copyUnknown {
		warnUnknown(model)
	}
	//
	return classfile.Transform(model, classfile.Identity,
		classfile.WithConstantPool(constantpool.NewBuilder()),
		classfile.WithDropUnknown(drop),
		classfile.WithCopyUnknown(copyUnknown))
}

// Warn about unknown attributes which will be copied into a foreign pool.
func warnUnknown(model *classfile.ClassModel) {
	count := countUnknown(model.Attributes())
	//
	for _, f := range model.Fields() {
		count += countUnknown(f.Attributes())
	}
	//
	for _, m := range model.Methods() {
		count += countUnknown(m.Attributes())
	}
	//
	if count > 0 {
		log.Warnf("%d unknown attribute(s) copied without remapping pool indices", count)
	}
}

func countUnknown(attributes []attribute.Attribute) int {
	return len(attribute.FindAll[attribute.Opaque](attributes))
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(rewriteCmd)
	rewriteCmd.Flags().StringP("output", "o", "", "output file (defaults to overwriting the input)")
	rewriteCmd.Flags().Bool("drop-unknown", false, "discard unknown attributes")
	rewriteCmd.Flags().Bool("copy-unknown", false, "copy unknown attributes without remapping them")
}
