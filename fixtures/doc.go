// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package fixtures serves the static datasets that sit beside the voter roll.

Three JSON files are embedded into the binary:

  - reservations.json: ZP and PS seats with their reservation category
  - divisions.json: division and ward composition (villages per ward)
  - surnames.json: the default surname → religion/community table

A file of the same name in DATA_DIR replaces the embedded copy, so the offline
extraction output can be dropped in without a rebuild.

Printed categories such as "OBC (Women)" are split into a base category and a
women flag at load time. An unknown category fails the load.
*/
package fixtures
