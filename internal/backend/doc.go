// Package backend defines the common surface shared by the three scheduling
// backends (crontab, launchd manifest, wrapper script): the closed Kind
// enumeration, the probe snapshot types, and the Reconciler capability
// interface each backend implements.
//
// Adding a backend means adding a Kind plus a Reconciler implementation;
// existing backends are never modified for it.
package backend
