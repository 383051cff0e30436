package bind_group_provider

// BufferWrite describes one queued copy into the buffer stored at Binding on Provider.
// Writes are staged on the queue and land before the next submitted command buffer executes.
type BufferWrite struct {
	// Provider owns the destination buffer.
	Provider BindGroupProvider
	// Binding selects the buffer on Provider.
	Binding int
	// Offset is the byte offset into the buffer; a multiple of 4.
	Offset uint64
	// Data is copied at call time and may be reused afterwards.
	Data []byte
}
