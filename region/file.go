// Copyright ©2015 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package region

import "os"

func openBED(path string) (*os.File, error) {
	return os.Open(path)
}
