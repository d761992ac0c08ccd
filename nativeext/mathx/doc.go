// Package mathx is a small native extension module: an init()-time
// RegisterNative call, a handful of functions resolved lazily as
// `mathx.sqrt`/`mathx.pow`/etc, and one factory registered from its
// Installer hook at import time. It is deliberately small, a reference
// integration rather than a standard library.
package mathx
