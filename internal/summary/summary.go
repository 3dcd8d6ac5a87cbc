// Package summary renders one human-readable line per captured packet.
package summary

import (
	"fmt"
	"strconv"
	"strings"

	"firestige.xyz/netvis/internal/core"
	"firestige.xyz/netvis/internal/core/decoder"
)

// renderFunc produces the summary text for one layer, or an error when
// the layer is not present in the frame.
type renderFunc func(frame []byte) (string, error)

var renderers = map[core.Layer]renderFunc{
	core.LayerHTTP:     renderHTTP,
	core.LayerRTP:      renderRTP,
	core.LayerRTCPRR:   renderRTCP(core.RTCPReceiverReport, "RTCP Receiver Report"),
	core.LayerRTCPSR:   renderRTCP(core.RTCPSenderReport, "RTCP Sender Report"),
	core.LayerSDP:      renderSDP,
	core.LayerUDP:      renderUDP,
	core.LayerTCP:      renderTCP,
	core.LayerIP:       renderIP,
	core.LayerARP:      renderARP,
	core.LayerEthernet: renderEthernet,
}

// Classify returns the most specific layer found in p and its summary,
// trying layers in core.SummaryOrder. A frame no decoder recognizes yields
// LayerUnknown with empty text.
func Classify(p core.Packet) core.Summary {
	frame := p.Data()
	for _, layer := range core.SummaryOrder {
		render, ok := renderers[layer]
		if !ok {
			continue
		}
		if text, err := render(frame); err == nil {
			return core.Summary{Layer: layer, Text: text}
		}
	}
	return core.Summary{Layer: core.LayerUnknown}
}

// Summarize returns the summary text for p.
func Summarize(p core.Packet) string {
	return Classify(p).Text
}

// Line renders the packet list entry "Packet N: S bytes | summary" for the
// packet at zero-based index i.
func Line(i int, p core.Packet) string {
	return fmt.Sprintf("Packet %d: %d bytes | %s", i+1, p.TotalSize(), Summarize(p))
}

func renderHTTP(frame []byte) (string, error) {
	msg, err := decoder.HTTP(frame)
	if err != nil {
		return "", err
	}
	if msg.Response {
		return strings.TrimRight(fmt.Sprintf("HTTP Response %d %s", msg.StatusCode, msg.Reason), " "), nil
	}
	return fmt.Sprintf("HTTP Request %s %s", msg.Method, msg.URL), nil
}

func renderRTP(frame []byte) (string, error) {
	rtp, err := decoder.RTP(frame)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("RTP Payload: %d bytes | Sequence: %d | Timestamp: %d", rtp.PayloadLen, rtp.Sequence, rtp.Timestamp), nil
}

func renderRTCP(pt uint8, text string) func([]byte) (string, error) {
	return func(frame []byte) (string, error) {
		hdr, err := decoder.RTCP(frame)
		if err != nil {
			return "", err
		}
		if hdr.PacketType != pt {
			return "", core.ErrAbsent
		}
		return text, nil
	}
}

func renderSDP(frame []byte) (string, error) {
	desc, err := decoder.SDP(frame)
	if err != nil {
		return "", err
	}
	text := "SDP Session: " + desc.SessionName
	if len(desc.Media) > 0 {
		text += " | Media: " + strings.Join(desc.Media, ", ")
	}
	return text, nil
}

func renderUDP(frame []byte) (string, error) {
	udp, err := decoder.UDP(frame)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("UDP Payload: %d bytes | %s:%d --> %s:%d",
		udp.PayloadLen, udp.SrcIP, udp.SrcPort, udp.DstIP, udp.DstPort), nil
}

// tcpFlagWords lists the flag words in render order.
var tcpFlagWords = []struct {
	flag core.TCPFlags
	word string
}{
	{core.TCPFlagACK, "Acknowledgment"},
	{core.TCPFlagPSH, "Push"},
	{core.TCPFlagSYN, "Synchronisation"},
	{core.TCPFlagURG, "Urgent"},
	{core.TCPFlagRST, "Reset"},
	{core.TCPFlagFIN, "Finish"},
}

func renderTCP(frame []byte) (string, error) {
	tcp, err := decoder.TCP(frame)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("TCP ")
	for _, fw := range tcpFlagWords {
		if tcp.Flags.Has(fw.flag) {
			b.WriteString(fw.word)
			b.WriteByte(' ')
		}
	}
	b.WriteString("| ")
	b.WriteString(tcp.SrcIP.String())
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(int(tcp.SrcPort)))
	b.WriteString(" --> ")
	b.WriteString(tcp.DstIP.String())
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(int(tcp.DstPort)))
	return b.String(), nil
}

func renderIP(frame []byte) (string, error) {
	ip, err := decoder.IPv4(frame)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("IP %s --> %s", ip.SrcIP, ip.DstIP), nil
}

func renderARP(frame []byte) (string, error) {
	arp, err := decoder.ARP(frame)
	if err != nil {
		return "", err
	}
	if arp.Operation == core.ARPRequest {
		return fmt.Sprintf("ARP Request - %s looking for %s", arp.SenderMAC, arp.TargetIP), nil
	}
	return fmt.Sprintf("ARP Reply - %s is %s", arp.SenderIP, arp.SenderMAC), nil
}

func renderEthernet(frame []byte) (string, error) {
	eth, err := decoder.Ethernet(frame)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Ethernet %s --> %s | Payload: %d bytes", eth.SrcMAC, eth.DstMAC, eth.PayloadLen), nil
}
