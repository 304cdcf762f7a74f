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

package operation

import (
	"context"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🏃 Runner executes indexed tasks with bounded parallelism
type Runner struct {
	limit int
}

// 🏗️ NewRunner creates a new runner. A limit of 1 runs tasks in order.
func NewRunner(limit int) *Runner {
	if limit < 1 {
		limit = 1
	}
	return &Runner{limit: limit}
}

// 🏃 Run calls fn for every index in [0, n). The first error cancels the
// context passed to the remaining tasks and is returned.
func (r *Runner) Run(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	if r.limit == 1 {
		return r.runSync(ctx, n, fn)
	}
	return r.runAsync(ctx, n, fn)
}

// 🔄 runSync runs tasks one after another
func (r *Runner) runSync(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("operation cancelled: %w", err)
		}
		if err := fn(ctx, i); err != nil {
			return err
		}
	}
	return nil
}

// ⚡ runAsync runs up to limit tasks at once
func (r *Runner) runAsync(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit)

	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return errors.Errorf("operation cancelled: %w", err)
			}
			return fn(gctx, i)
		})
	}

	return g.Wait()
}
