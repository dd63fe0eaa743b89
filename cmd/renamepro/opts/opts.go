// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package opts holds the shared dependencies wired into every command.
package opts

import (
	"github.com/spf13/cobra"
	"github.com/walteh/renamepro/pkg/config"
	"github.com/walteh/renamepro/pkg/history"
	"github.com/walteh/renamepro/pkg/journal"
	"github.com/walteh/renamepro/pkg/rename"
	"github.com/walteh/renamepro/pkg/report"
	"github.com/walteh/renamepro/pkg/revision"
)

// 🏭 Builder constructs RootOpts once flag parsing has finished.
type Builder func(cmd *cobra.Command) (*RootOpts, error)

// 🔧 RootOpts contains dependencies shared by all commands
type RootOpts struct {
	Config *config.Config

	// ConfigPath is where Config was loaded from, for writing updates back.
	ConfigPath string

	Ledger   *history.Ledger
	Executor *rename.Executor
	Detector *revision.Detector
	Reporter *report.Reporter
	Journal  *journal.Writer
}
