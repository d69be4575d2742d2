package rfd

// Resync 在校验失败后重新对齐收发双方的字节位置。
// 持续单字节读取，直到最近 4 字节恰为 "sync" 或一次空读；随后写出 'S' 并清空双向缓冲。
func (e *Engine) Resync() error {
	e.n.status("Attempting to Sync - This should take approx. 2 sec")

	var window [len(SyncMarker)]byte
	filled := 0
	for {
		b, err := e.t.Read(1)
		if err != nil {
			return err
		}
		if len(b) == 0 {
			break
		}
		copy(window[:], window[1:])
		window[len(window)-1] = b[0]
		if filled < len(window) {
			filled++
		}
		if filled == len(window) && string(window[:]) == SyncMarker {
			break
		}
	}

	if err := e.Write([]byte{AckSync}); err != nil {
		return err
	}
	if err := e.t.FlushInput(); err != nil {
		return err
	}
	if err := e.t.FlushOutput(); err != nil {
		return err
	}
	e.n.status("System Match")
	e.n.emit(Event{Kind: EventResync})
	return nil
}
