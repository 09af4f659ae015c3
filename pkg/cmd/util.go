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
	"github.com/consensys/go-classfile/pkg/mmap"
	pkgErrors "github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// GetFlag gets an expected flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string flag, or exits if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint gets an expected unsigned integer flag, or exits if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// withClassFile maps a given class file into memory, parses it and runs a
// given function over the resulting model.  The model is only valid for the
// duration of that function, since the mapping is released afterwards.  Page
// faults against the mapping are reported as errors.
func withClassFile(filename string, fn func(*classfile.ClassModel) error) error {
	file, err := mmap.Open(filename)
	if err != nil {
		return err
	}
	//
	defer file.Close()
	//
	return file.Guard(func(data []byte) error {
		model, err := classfile.Parse(data)
		if err != nil {
			return pkgErrors.Wrapf(err, "failed to parse %s", filename)
		}
		//
		return fn(model)
	})
}

// writeClassFile writes the bytes of a class to a given file.
func writeClassFile(filename string, bytes []byte) error {
	if err := os.WriteFile(filename, bytes, 0644); err != nil {
		return pkgErrors.Wrapf(err, "failed to write %s", filename)
	}
	//
	return nil
}
