package ethereum

// certificateABI covers the two contract methods the service calls.
const certificateABI = `[
	{
		"type": "function",
		"name": "mintPOAP",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "recipient", "type": "address"},
			{"name": "courseId", "type": "uint256"},
			{"name": "courseName", "type": "string"},
			{"name": "courseDescription", "type": "string"}
		],
		"outputs": [{"name": "", "type": "uint256"}]
	},
	{
		"type": "function",
		"name": "certificateExists",
		"stateMutability": "view",
		"inputs": [
			{"name": "courseId", "type": "uint256"},
			{"name": "recipient", "type": "address"}
		],
		"outputs": [{"name": "", "type": "bool"}]
	}
]`

const (
	methodMint   = "mintPOAP"
	methodExists = "certificateExists"
)
