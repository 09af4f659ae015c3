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
	"github.com/consensys/go-classfile/pkg/classfile/desc"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var permitCmd = &cobra.Command{
	Use:   "permit [flags] class_file class(es)",
	Short: "Set the permitted subclasses of a sealed class.",
	Long: `Set the permitted subclasses of a class, replacing any existing
	PermittedSubclasses attribute.  Classes are given either as binary names
	(e.g. java.lang.String) or internal names (e.g. java/lang/String).`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) < 2 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		output := GetString(cmd, "output")
		if output == "" {
			output = args[0]
		}
		//
		classes, err := parseClassNames(args[1:])
		if err != nil {
			log.Error(err)
			os.Exit(2)
		}
		//
		permits, err := attribute.PermittedSubclassesOfSymbols(classes...)
		if err != nil {
			log.Error(err)
			os.Exit(2)
		}
		//
		var bytes []byte
		//
		err = withClassFile(args[0], func(model *classfile.ClassModel) error {
			// The new attribute is supplied last, so it wins.
			bytes, err = classfile.Transform(model, classfile.Identity, classfile.WithAppended(permits))
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

// Parse class names given as either binary or internal names.
func parseClassNames(names []string) ([]desc.ClassDesc, error) {
	classes := make([]desc.ClassDesc, len(names))
	//
	for i, name := range names {
		var err error
		//
		if strings.Contains(name, "/") {
			classes[i], err = desc.OfInternalName(name)
		} else {
			classes[i], err = desc.Of(name)
		}
		//
		if err != nil {
			return nil, err
		}
	}
	//
	return classes, nil
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(permitCmd)
	permitCmd.Flags().StringP("output", "o", "", "output file (defaults to overwriting the input)")
}
