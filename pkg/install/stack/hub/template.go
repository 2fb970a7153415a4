/*
Copyright 2025 the vpc-lattice-centralized-endpoints contributors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package hub

// networkTemplate is the hub's network substrate: the endpoint VPC with two
// private subnets and a security group admitting HTTPS from the RFC1918
// ranges the spokes live in. The VPC is deliberately small; it hosts nothing
// but the centralized endpoints and the resource gateway.
const networkTemplate = `AWSTemplateFormatVersion: "2010-09-09"
Description: Endpoint VPC for centralized VPC interface endpoints.

Parameters:
  NamePrefix:
    Type: String
    Description: Prefix for all resource names.
  Environment:
    Type: String
    Default: hub
    Description: Environment tag applied to all resources.

Resources:
  EndpointVpc:
    Type: AWS::EC2::VPC
    Properties:
      CidrBlock: 10.255.0.0/16
      EnableDnsSupport: true
      EnableDnsHostnames: true
      Tags:
        - Key: Name
          Value: !Sub "${NamePrefix}-endpoint-vpc"
        - Key: Environment
          Value: !Ref Environment

  PrivateSubnetA:
    Type: AWS::EC2::Subnet
    Properties:
      VpcId: !Ref EndpointVpc
      CidrBlock: 10.255.0.0/24
      AvailabilityZone: !Select [0, !GetAZs ""]
      Tags:
        - Key: Name
          Value: !Sub "${NamePrefix}-endpoint-subnet-a"
        - Key: Environment
          Value: !Ref Environment

  PrivateSubnetB:
    Type: AWS::EC2::Subnet
    Properties:
      VpcId: !Ref EndpointVpc
      CidrBlock: 10.255.1.0/24
      AvailabilityZone: !Select [1, !GetAZs ""]
      Tags:
        - Key: Name
          Value: !Sub "${NamePrefix}-endpoint-subnet-b"
        - Key: Environment
          Value: !Ref Environment

  PrivateRouteTable:
    Type: AWS::EC2::RouteTable
    Properties:
      VpcId: !Ref EndpointVpc
      Tags:
        - Key: Name
          Value: !Sub "${NamePrefix}-endpoint-rtb"
        - Key: Environment
          Value: !Ref Environment

  SubnetARouteTableAssociation:
    Type: AWS::EC2::SubnetRouteTableAssociation
    Properties:
      SubnetId: !Ref PrivateSubnetA
      RouteTableId: !Ref PrivateRouteTable

  SubnetBRouteTableAssociation:
    Type: AWS::EC2::SubnetRouteTableAssociation
    Properties:
      SubnetId: !Ref PrivateSubnetB
      RouteTableId: !Ref PrivateRouteTable

  EndpointSecurityGroup:
    Type: AWS::EC2::SecurityGroup
    Properties:
      GroupDescription: HTTPS to the centralized endpoints from all member VPCs
      VpcId: !Ref EndpointVpc
      SecurityGroupIngress:
        - IpProtocol: tcp
          FromPort: 443
          ToPort: 443
          CidrIp: 10.0.0.0/8
        - IpProtocol: tcp
          FromPort: 443
          ToPort: 443
          CidrIp: 172.16.0.0/12
      Tags:
        - Key: Name
          Value: !Sub "${NamePrefix}-endpoint-sg"
        - Key: Environment
          Value: !Ref Environment

Outputs:
  VpcId:
    Value: !Ref EndpointVpc
  PrivateSubnetIds:
    Value: !Join [",", [!Ref PrivateSubnetA, !Ref PrivateSubnetB]]
  SecurityGroupId:
    Value: !Ref EndpointSecurityGroup
  RouteTableId:
    Value: !Ref PrivateRouteTable
`
