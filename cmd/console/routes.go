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
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/console/internal/console/config"
	"github.com/go-arcade/console/internal/console/remote"
	"github.com/go-arcade/console/internal/console/route"
	"github.com/go-arcade/console/internal/console/server"
	"github.com/go-arcade/console/internal/console/store"
	"github.com/spf13/cobra"
)

type routesOptions struct {
	menus  string
	views  config.ViewsConfig
	flat   bool
	indent bool
}

// RoutesCmd generates the route table for a menu tree without starting the
// server, so the output can be checked before a menu change is rolled out.
func RoutesCmd() *cobra.Command {
	opts := &routesOptions{}
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Generate routes from a menu tree and print them as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := generateRoutes(cmd.Context(), opts)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.menus, "menus", "m", "", "menu tree JSON file, the built-in menus when empty")
	cmd.Flags().StringVar(&opts.views.LocalRoutes, "local", "", "local route table JSON file, the built-in table when empty")
	cmd.Flags().StringVar(&opts.views.Dir, "views", "", "view directory to check components against")
	cmd.Flags().StringVar(&opts.views.Prefix, "prefix", route.DefaultViewPrefix, "view path prefix")
	cmd.Flags().StringVar(&opts.views.Ext, "ext", route.DefaultViewExt, "view file extension")
	cmd.Flags().BoolVar(&opts.flat, "flat", false, "print the two-level form that is registered with the router")
	cmd.Flags().BoolVar(&opts.indent, "indent", true, "indent the JSON output")
	return cmd
}

func generateRoutes(ctx context.Context, opts *routesOptions) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		source *remote.StaticSource
		err    error
	)
	if opts.menus != "" {
		source, err = remote.NewStaticSourceFromFile(opts.menus)
	} else {
		source, err = remote.NewStaticSource()
	}
	if err != nil {
		return nil, err
	}

	generator, err := server.ProvideGenerator(opts.views)
	if err != nil {
		return nil, err
	}

	menus, err := source.Menus(ctx, store.MenuQuery{})
	if err != nil {
		return nil, err
	}
	routes := generator.Generate(menus)
	if opts.flat {
		routes = route.FlattenTwoLevel(routes)
	}

	if opts.indent {
		return sonic.ConfigStd.MarshalIndent(routes, "", "  ")
	}
	return sonic.Marshal(routes)
}
