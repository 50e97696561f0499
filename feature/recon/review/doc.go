// Package review implements the reviewer-driven compensation merge: when a
// reviewer corrects an identity value, rows whose corrected identities
// collide are collapsed onto a single merged row, remark columns are
// concatenated, and annotations follow their rows to the new identity.
package review
