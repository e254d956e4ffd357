package speedtest

import (
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

// newInterfaceDialer returns a dialer whose sockets are bound to iface
func newInterfaceDialer(iface string) *net.Dialer {
	dialer := baseDialer()
	dialer.Control = func(network, address string, c syscall.RawConn) error {
		var errSock error
		if err := c.Control(func(fd uintptr) { errSock = unix.BindToDevice(int(fd), iface) }); err != nil {
			return err
		}
		return errSock
	}
	return dialer
}
