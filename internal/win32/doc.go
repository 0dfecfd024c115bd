// Package win32 wraps the USER32 and SHCORE calls pindeck needs on
// Windows: monitor enumeration with effective DPI, a native panel window
// class, and its message pump. All symbols are resolved lazily so the
// binary starts on systems missing the newer DPI and capture APIs.
package win32
