// Package credential verifies passwords against pre-provisioned records
// without talking to any server.
//
// Records carry a random salt, an iteration count and the PBKDF2-HMAC-SHA256
// output for the true password; the password itself is never stored.
// Records are produced out of band with Provision and pasted into a
// static YAML (or JSON) file.
//
// A successful login writes a session marker to a session.Store. The
// marker has no signature and no expiry: whoever can write to the store
// can forge it. This mode is a gate for a local UI, not a security
// boundary, and sessions persist until ClearSession is called.
package credential
