// Package logging provides the credential sanitizer and the streaming line
// logger used while supervising the external online-schema-change tool.
//
// Nothing reaches the logger without passing through the sanitizer first;
// the generated command line and every line of tool output are scrubbed of
// the connection password before they are written anywhere.
package logging
