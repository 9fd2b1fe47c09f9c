// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ustream

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// spinMutex serializes the short delegated sections of a composite stream.
// Critical sections are bounded byte copies, so a spinning lock with
// adaptive backoff beats parking a goroutine.
type spinMutex struct {
	flag atomix.Int32
}

func (m *spinMutex) lock() {
	sw := spin.Wait{}
	for !m.flag.CompareAndSwapAcqRel(0, 1) {
		sw.Once()
	}
}

func (m *spinMutex) unlock() {
	m.flag.StoreRelease(0)
}
