/* Copyright (c) 2018 Salesforce
 * All rights reserved.
 * Licensed under the BSD 3-Clause license.
 * For full license text, see LICENSE.txt file in the repo root  or https://opensource.org/licenses/BSD-3-Clause
 */

// Package hmiddleware contains Chi style (function that takes and returns a
// HTTP handler) middleware for serving applications over https only.
//
// EnsureTLS is the main entry point: it applies a tlspolicy.Options to every
// request, redirecting or rejecting plaintext requests and stamping the
// Strict-Transport-Security header on encrypted responses. RequestID,
// StructuredLogger and SecureHeaders are the usual companions in a chain.
package hmiddleware
