// Package honeypot implements the field-name obfuscation and submission
// inspection protocol behind honeypot form protection.
//
// Every protected attribute is rendered as two inputs: a hidden input that
// carries the attribute name and must stay empty, and a visible input named
// after the attribute's public identifier (the lowercase hex MD5 of the name)
// that a human fills in. Inspect looks at both slots for every configured
// honeypot, reports the honeypots whose hidden slot was filled, and moves the
// visible value back under the attribute name so downstream binding never
// sees the obfuscated keys.
//
// Registry values are immutable; AddHoneypot and AddHoneypots return a new
// Registry and leave the receiver untouched, so a registry built at startup
// can be shared by concurrent requests without locking. Honeypot names must
// not collide with ordinary attributes of the same form; keeping them apart
// is the caller's responsibility.
package honeypot
