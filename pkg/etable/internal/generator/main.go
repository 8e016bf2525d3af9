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
package main

import (
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/consensys/bavard"
)

const copyrightHolder = "Consensys Software Inc."

// opcodeClass describes a single class of instruction, as recognised by the
// event table.
type opcodeClass struct {
	// Identifier used for the generated constant (e.g. LOCAL_GET).
	Ident string
	// Name used when printing (or parsing) the class (e.g. "local_get").
	Name string
}

type opcodeClasses struct {
	Classes []opcodeClass
}

//go:generate go run main.go
func main() {
	bgen := bavard.NewBatchGenerator(copyrightHolder, 2025, "go-etable")
	// NOTE: the order here determines the numeric encoding of each class, hence
	// new classes must only ever be appended.
	data := opcodeClasses{[]opcodeClass{
		{"LOCAL_GET", "local_get"},
		{"LOCAL_SET", "local_set"},
		{"LOCAL_TEE", "local_tee"},
		{"CONST", "const"},
		{"DROP", "drop"},
		{"SELECT", "select"},
		{"RETURN", "return"},
		{"BIN", "bin"},
		{"BR", "br"},
		{"BR_IF", "br_if"},
		{"CALL", "call"},
		{"LOAD", "load"},
		{"STORE", "store"},
	}}
	//
	assertNoError(checkUnique(data.Classes), "")
	//
	assertNoError(bgen.Generate(data, "etable", "templates",
		bavard.Entry{
			File:      "../../opcode_class.go",
			Templates: []string{"opcode_class.go.tmpl"},
		},
	), "for opcode classes")
	// run gofmt on the generated file
	runCmd("gofmt", "-w", "../../opcode_class.go")
}

func checkUnique(classes []opcodeClass) error {
	var names []string
	//
	for _, c := range classes {
		if slices.Contains(names, c.Name) {
			return fmt.Errorf("duplicate opcode class \"%s\"", c.Name)
		}
		//
		names = append(names, c.Name)
	}
	//
	return nil
}

func runCmd(name string, arg ...string) {
	fmt.Println(name, strings.Join(arg, " "))
	cmd := exec.Command(name, arg...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	assertNoError(cmd.Run(), "")
}

func assertNoError(err error, contextAndArgs ...any) {
	if err != nil {
		msg := err.Error()

		if len(contextAndArgs) > 0 && contextAndArgs[0] != "" {
			allArgs := append(slices.Clone(contextAndArgs[1:]), err)
			msg = fmt.Sprintf(contextAndArgs[0].(string)+": %v", allArgs...)
		}

		fmt.Println(msg)
		os.Exit(1)
	}
}
