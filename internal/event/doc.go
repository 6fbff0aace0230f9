// Package event defines the lifecycle event model for instrumented
// components.
//
// This package contains type definitions only. All other internal packages
// import event; event imports only deep. This keeps the event model the
// foundational layer with no circular dependencies.
//
// An Event is immutable once emitted: adapters construct it, the kernel and
// every downstream consumer treat it as read-only.
package event
