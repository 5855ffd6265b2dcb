// Package kernel is the CPU reference of the particle simulation shader.
//
// It evaluates the same force model as the WGSL compute kernel, in float32
// with the same constants and noise hash, and is used to verify the field
// contracts and to run scenes headless without a GPU.
package kernel
