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

	"github.com/consensys/go-etable/pkg/etable"
	"github.com/spf13/viper"
)

// ENV_PREFIX is the prefix of environment variables which override layout
// settings (e.g. ETABLE_STEP_SIZE).
const ENV_PREFIX = "ETABLE"

// Configuration keys for the step layout.
const (
	cfgKeyStepSize          = "step_size"
	cfgKeyBitStart          = "bit_start"
	cfgKeyCommonRangeStart  = "common_range_start"
	cfgKeyCommonRangeBits   = "common_range_bits"
	cfgKeyMTableLookupStart = "mtable_lookup_start"
	cfgKeyU64Start          = "u64_start"
	cfgKeyU4Columns         = "u4_columns"
	cfgKeySharedStart       = "shared_start"
)

// LoadLayout determines the step layout to use.  Settings are taken from the
// default layout, overridden by those in the given yaml file (if non-empty),
// and finally overridden by ETABLE_* environment variables.  The resulting
// layout is validated before being returned.
func LoadLayout(filename string) (etable.Layout, error) {
	var (
		v       = viper.New()
		layout  = etable.DefaultLayout()
		entries = layoutEntries(&layout)
	)
	//
	for key, ptr := range entries {
		v.SetDefault(key, *ptr)
	}
	//
	v.SetEnvPrefix(ENV_PREFIX)
	v.AutomaticEnv()
	//
	if filename != "" {
		v.SetConfigFile(filename)
		//
		if err := v.ReadInConfig(); err != nil {
			return layout, fmt.Errorf("read config: %w", err)
		}
	}
	// Extract settings
	for key, ptr := range entries {
		*ptr = v.GetUint(key)
	}
	// Sanity check
	if err := layout.Validate(); err != nil {
		return layout, err
	}
	//
	return layout, nil
}

func layoutEntries(layout *etable.Layout) map[string]*uint {
	return map[string]*uint{
		cfgKeyStepSize:          &layout.StepSize,
		cfgKeyBitStart:          &layout.BitStart,
		cfgKeyCommonRangeStart:  &layout.CommonRangeStart,
		cfgKeyCommonRangeBits:   &layout.CommonRangeBits,
		cfgKeyMTableLookupStart: &layout.MTableLookupStart,
		cfgKeyU64Start:          &layout.U64Start,
		cfgKeyU4Columns:         &layout.U4Columns,
		cfgKeySharedStart:       &layout.SharedStart,
	}
}
