// Package zenodo implements an archival service client for Zenodo.
//
// All versions of a dataset deposited on Zenodo share a concept record. Each version is
// a record, usually created by the GitHub integration when a release is tagged, holding
// the release bundle as a zip archive.
//
// Downloads are staged next to their destination and moved into place only once
// all files of the record have been retrieved and verified, so that an interrupted
// download never looks like a complete version.
package zenodo
