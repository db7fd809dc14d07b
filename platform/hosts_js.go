//go:build js

package platform

import _ "github.com/gogpu/ggweb/backend/webgpu"
