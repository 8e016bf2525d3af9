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
package util

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ParFor executes a given job for every index in [0..n) using at most limit
// go-routines at any one time.  A limit of zero (or one) executes the jobs
// sequentially, in index order.  Jobs are independent of each other; the first
// error encountered is returned, and any jobs not yet started are skipped.
func ParFor(n uint, limit uint, job func(index uint) error) error {
	if limit <= 1 {
		return seqFor(n, job)
	}
	//
	group, ctx := errgroup.WithContext(context.Background())
	group.SetLimit(int(limit))
	//
	for i := uint(0); i < n; i++ {
		// Stop scheduling once something has failed.
		if ctx.Err() != nil {
			break
		}
		//
		index := i
		//
		group.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			//
			return job(index)
		})
	}
	//
	return group.Wait()
}

func seqFor(n uint, job func(index uint) error) error {
	for i := uint(0); i < n; i++ {
		if err := job(i); err != nil {
			return err
		}
	}
	// Done
	return nil
}
