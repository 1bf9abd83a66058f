// Package workspace finds the seed projects around the working directory,
// builds the sibling matcher set from their git remotes, and runs the
// expansion pipelines the commands share. The Cloner materializes missing
// siblings with git.
package workspace
