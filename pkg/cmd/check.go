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
	"bytes"
	"fmt"
	"os"

	"github.com/consensys/go-classfile/pkg/classfile"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] class_file(s)",
	Short: "Check class files survive an identity transform unchanged.",
	Long: `Check that each class file is reproduced byte for byte when parsed and
	then rebuilt without changes.  Optionally, every attribute is also decoded
	to check it is well formed.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) < 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		decode := GetFlag(cmd, "decode")
		failed := 0
		//
		for _, filename := range args {
			if err := withClassFile(filename, func(model *classfile.ClassModel) error {
				return checkClass(model, decode)
			}); err != nil {
				log.Errorf("%s: %v", filename, err)
				//
				failed++
			} else {
				log.Debugf("%s: ok", filename)
			}
		}
		//
		if failed > 0 {
			fmt.Printf("%d of %d class file(s) failed\n", failed, len(args))
			os.Exit(1)
		}
	},
}

// Check a class round trips, and (optionally) that its attributes decode.
func checkClass(model *classfile.ClassModel, decode bool) error {
	if decode {
		if err := classfile.Validate(model); err != nil {
			return err
		}
	}
	//
	output, err := classfile.Transform(model, classfile.Identity)
	if err != nil {
		return err
	} else if !bytes.Equal(output, model.Bytes()) {
		return fmt.Errorf("round trip differs (%d bytes in, %d bytes out)", len(model.Bytes()), len(output))
	}
	//
	return nil
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().Bool("decode", false, "decode every attribute")
}
