// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"

	"github.com/go-arcade/console/internal/console/bootstrap"
	"github.com/go-arcade/console/pkg/version"
	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "console",
	Short: "arcade console serves routing, permission and tab state for the admin dashboard",
	Run: func(cmd *cobra.Command, args []string) {
		err := cmd.Help()
		if err != nil {
			return
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the console http server",
	Run: func(cmd *cobra.Command, args []string) {
		// Bootstrap 初始化应用
		app, cleanup, err := bootstrap.Bootstrap(configFile, initApp)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}

		// 启动应用并等待退出信号
		bootstrap.Run(app, cleanup)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&configFile, "conf", "c", "conf.d/config.toml", "configuration file path, e.g. -c ./conf.d/config.toml")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(RoutesCmd())
	rootCmd.AddCommand(version.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
