// Package container invokes a container engine CLI (docker, podman, buildah)
// to build images synchronously.
package container
