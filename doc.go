/*
go-footfall counts directional line crossings of people tracked in a video
stream.  The root package contains the crossing Counter which maintains a
bounded trailing position history per track identity and counts each identity
at most once as its center point crosses a fixed horizontal line.

Detection and tracking collaborators live in the detect and tracker
subdirectories, on-frame visualization in render, and optional crossing event
persistence in store.

See example code and usage in the example subdirectory.
*/
package footfall
