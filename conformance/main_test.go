/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package conformance

import (
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
