package masscan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type CommandLineTestSuite struct {
	suite.Suite
}

func TestCommandLineTestSuite(t *testing.T) {
	suite.Run(t, new(CommandLineTestSuite))
}

func (s *CommandLineTestSuite) TestTokens() {
	cmd := NewCommandLine("", ScanRequest{Target: "10.0.0.0/8", Port: "1-1000"})

	s.Equal([]string{"masscan", "-p1-1000", "10.0.0.0/8"}, cmd.Args())
	s.Equal("masscan", cmd.Binary())
	s.False(cmd.Elevated())
}

func (s *CommandLineTestSuite) TestOpaqueInputs() {
	inputs := []ScanRequest{
		{Target: "1.1.1.1; rm -rf /", Port: "80"},
		{Target: "$(id)", Port: "`whoami`"},
		{Target: "host name with spaces", Port: "22,80 443"},
		{Target: "", Port: ""},
	}
	for _, req := range inputs {
		argv := NewCommandLine("masscan", req).Argv()
		s.Equal("-p"+req.Port, argv[1])
		s.Equal(req.Target, argv[2])
		s.Len(argv, 3)
	}
}

func (s *CommandLineTestSuite) TestExtraArgsOrder() {
	req := ScanRequest{
		Target:    "192.168.1.0/24",
		Port:      "80",
		ExtraArgs: []string{"--max-rate", "1000", "--banners", "--rate=5"},
	}
	cmd := NewCommandLine("masscan", req)

	s.Equal([]string{"masscan", "-p80", "192.168.1.0/24", "--max-rate", "1000", "--banners", "--rate=5"}, cmd.Args())
	s.Equal([]string{"-p80", "192.168.1.0/24", "--max-rate", "1000", "--banners", "--rate=5"}, cmd.ScanArgs())
}

func (s *CommandLineTestSuite) TestElevation() {
	cmd := NewCommandLine("masscan", ScanRequest{Target: "1.1.1.1", Port: "443"}, "sudo", "-n")

	s.True(cmd.Elevated())
	s.Equal([]string{"sudo", "-n", "masscan", "-p443", "1.1.1.1"}, cmd.Args())
	s.Equal([]string{"masscan", "-p443", "1.1.1.1"}, cmd.Argv())
	s.Equal("sudo -n masscan -p443 1.1.1.1", cmd.String())
}

func (s *CommandLineTestSuite) TestImmutable() {
	extra := []string{"--max-rate", "1000"}
	cmd := NewCommandLine("masscan", ScanRequest{Target: "1.1.1.1", Port: "80", ExtraArgs: extra})

	extra[0] = "--changed"
	args := cmd.Args()
	args[1] = "-p9999"
	scanArgs := cmd.ScanArgs()
	scanArgs[0] = "-p1"

	s.Equal([]string{"masscan", "-p80", "1.1.1.1", "--max-rate", "1000"}, cmd.Args())
}

func (s *CommandLineTestSuite) TestStringQuotesMetacharacters() {
	cmd := NewCommandLine("masscan", ScanRequest{Target: "1.1.1.1; rm -rf /", Port: "80"})

	s.Equal("masscan -p80 '1.1.1.1; rm -rf /'", cmd.String())
}

func (s *CommandLineTestSuite) TestStringEndsWithExtraArgs() {
	cmd := NewCommandLine("masscan", ScanRequest{
		Target:    "10.0.0.0/8",
		Port:      "80",
		ExtraArgs: []string{"--max-rate", "1000"},
	})

	s.True(strings.HasSuffix(cmd.String(), "--max-rate 1000"))
}

func (s *CommandLineTestSuite) TestSudoAndDockerStrings() {
	cmd := NewCommandLine("masscan", ScanRequest{Target: "target.com", Port: "80"}, "sudo", "-n")

	s.Equal("sudo masscan -p80 target.com", cmd.SudoString())
	s.Equal("docker run --rm --cap-add=NET_RAW masscan/masscan -p80 target.com", cmd.DockerString(""))
	s.Equal("docker run --rm --cap-add=NET_RAW example/masscan:1.3 -p80 target.com", cmd.DockerString("example/masscan:1.3"))
}
